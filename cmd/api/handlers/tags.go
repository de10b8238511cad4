package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/dto"
	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

func tagInput(req dto.TagRequestDTO) services.TagInput {
	return services.TagInput{
		TagName:     req.TagName,
		Name:        req.Name,
		Aliases:     req.Aliases,
		Description: req.Description,
		IsActive:    req.IsActive,
		IsSendAI:    req.IsSendAI,
	}
}

// ListTagsHandler godoc
// @Summary      List tags
// @Tags         tags
// @Param        X-User-Id  header  string  true  "User ID"
// @Produce      json
// @Success      200  {array}  models.Tag
// @Router       /tags [get]
func ListTagsHandler(svc TagAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		tags, err := svc.List(c.Request.Context(), userID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tags)
	}
}

// TagSnapshotHandler godoc
// @Summary      Tag snapshot
// @Description  The request_taglist JSON a refinement batch would send now
// @Tags         tags
// @Param        X-User-Id  header  string  true  "User ID"
// @Produce      json
// @Success      200  {object}  dto.TagSnapshotResponseDTO
// @Router       /tags/snapshot [get]
func TagSnapshotHandler(svc TagAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, err := svc.Snapshot(c.Request.Context(), userID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.TagSnapshotResponseDTO{Snapshot: snapshot})
	}
}

// CreateTagHandler godoc
// @Summary      Create tag
// @Tags         tags
// @Param        X-User-Id  header  string             true  "User ID"
// @Param        body       body    dto.TagRequestDTO  true  "tag"
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.Tag
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /tags [post]
func CreateTagHandler(svc TagAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TagRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Detail: err.Error()})
			return
		}
		tag, err := svc.Create(c.Request.Context(), userID(c), tagInput(req))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, tag)
	}
}

// UpdateTagHandler godoc
// @Summary      Update tag
// @Tags         tags
// @Param        X-User-Id  header  string             true  "User ID"
// @Param        id         path    int                true  "Tag ID"
// @Param        body       body    dto.TagRequestDTO  true  "tag"
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Tag
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /tags/{id} [patch]
func UpdateTagHandler(svc TagAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req dto.TagRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Detail: err.Error()})
			return
		}
		tag, err := svc.Update(c.Request.Context(), userID(c), id, tagInput(req))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tag)
	}
}

// DeleteTagHandler godoc
// @Summary      Delete tag
// @Tags         tags
// @Param        X-User-Id  header  string  true  "User ID"
// @Param        id         path    int     true  "Tag ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /tags/{id} [delete]
func DeleteTagHandler(svc TagAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := svc.Delete(c.Request.Context(), userID(c), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ReorderTagsHandler godoc
// @Summary      Reorder tags
// @Tags         tags
// @Param        X-User-Id  header  string           true  "User ID"
// @Param        body       body    []models.TagOrder  true  "new display orders"
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /tags/order [put]
func ReorderTagsHandler(svc TagAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.TagOrder
		if err := c.ShouldBindJSON(&orders); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Detail: err.Error()})
			return
		}
		if err := svc.Reorder(c.Request.Context(), userID(c), orders); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "reordered"})
	}
}
