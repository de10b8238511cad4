package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/dto"
	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

// ListPostsHandler godoc
// @Summary      List posts
// @Description  Non-deleted posts whose day lies within [start, end], newest first
// @Tags         posts
// @Param        X-User-Id  header  string  true   "User ID"
// @Param        start      query   string  false  "YYYY-MM-DD (default today)"
// @Param        end        query   string  false  "YYYY-MM-DD (default today)"
// @Produce      json
// @Success      200  {array}   models.Post
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc PostAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, err := queryDateRange(c)
		if err != nil {
			writeError(c, err)
			return
		}
		posts, err := svc.ListByDateRange(c.Request.Context(), userID(c), start, end)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, posts)
	}
}

// DailySummaryHandler godoc
// @Summary      Daily post summary
// @Description  Post count, seconds and characters per day for the last N days
// @Tags         posts
// @Param        X-User-Id  header  string  true   "User ID"
// @Param        days       query   int     false  "Number of days (default 7)"
// @Produce      json
// @Success      200  {array}   models.DailySummary
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /posts/summary [get]
func DailySummaryHandler(svc PostAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
		if err != nil {
			days = 0
		}
		summary, err := svc.DailySummary(c.Request.Context(), userID(c), days, time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// CreatePostHandler godoc
// @Summary      Create post
// @Tags         posts
// @Param        X-User-Id  header  string                    true  "User ID"
// @Param        body       body    dto.CreatePostRequestDTO  true  "post"
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.Post
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /posts [post]
func CreatePostHandler(svc PostAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreatePostRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Detail: err.Error()})
			return
		}
		post, err := svc.Create(c.Request.Context(), userID(c), services.CreatePostInput{
			CurrentAt:        req.CurrentAt,
			Title:            req.Title,
			Content:          req.Content,
			Tags:             req.Tags,
			Second:           req.Second,
			PublicFlg:        req.PublicFlg,
			PublicContentFlg: req.PublicContentFlg,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, post)
	}
}

// UpdatePostHandler godoc
// @Summary      Update post
// @Description  Partial update; omitted fields are left untouched
// @Tags         posts
// @Param        X-User-Id  header  string                    true  "User ID"
// @Param        id         path    int                       true  "Post ID"
// @Param        body       body    dto.UpdatePostRequestDTO  true  "fields to change"
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Post
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [patch]
func UpdatePostHandler(svc PostAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req dto.UpdatePostRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Detail: err.Error()})
			return
		}
		post, err := svc.Update(c.Request.Context(), userID(c), id, models.PostUpdate{
			Title:            req.Title,
			Content:          req.Content,
			Tags:             req.Tags,
			Second:           req.Second,
			PublicFlg:        req.PublicFlg,
			PublicContentFlg: req.PublicContentFlg,
			DeleteFlg:        req.DeleteFlg,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// DeletePostHandler godoc
// @Summary      Soft delete post
// @Tags         posts
// @Param        X-User-Id  header  string  true  "User ID"
// @Param        id         path    int     true  "Post ID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [delete]
func DeletePostHandler(svc PostAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := svc.SoftDelete(c.Request.Context(), userID(c), id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "deleted"})
	}
}

// DeletePostPermanentlyHandler godoc
// @Summary      Delete post permanently
// @Tags         posts
// @Param        X-User-Id  header  string  true  "User ID"
// @Param        id         path    int     true  "Post ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id}/permanent [delete]
func DeletePostPermanentlyHandler(svc PostAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := svc.DeletePermanently(c.Request.Context(), userID(c), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
