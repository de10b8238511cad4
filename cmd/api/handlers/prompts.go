package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/dto"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

// GetPromptHandler godoc
// @Summary      Active prompt
// @Description  Active version of a prompt slug, or the built-in default as version 0
// @Tags         prompts
// @Param        X-User-Id  header  string  true  "User ID"
// @Param        slug       path    string  true  "typo_prompt | week_summary_prompt"
// @Produce      json
// @Success      200  {object}  models.PromptVersion
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /prompts/{slug} [get]
func GetPromptHandler(svc PromptAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := svc.GetActive(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// PromptHistoryHandler godoc
// @Summary      Prompt history
// @Tags         prompts
// @Param        X-User-Id  header  string  true  "User ID"
// @Param        slug       path    string  true  "Prompt slug"
// @Produce      json
// @Success      200  {array}   models.PromptVersion
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /prompts/{slug}/history [get]
func PromptHistoryHandler(svc PromptAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		versions, err := svc.History(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, versions)
	}
}

// SavePromptHandler godoc
// @Summary      Save prompt version
// @Description  Stores the content as the next active version
// @Tags         prompts
// @Param        X-User-Id  header  string                    true  "User ID"
// @Param        slug       path    string                    true  "Prompt slug"
// @Param        body       body    dto.SavePromptRequestDTO  true  "prompt"
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.PromptVersion
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /prompts/{slug} [post]
func SavePromptHandler(svc PromptAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SavePromptRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Detail: err.Error()})
			return
		}
		v, err := svc.Save(c.Request.Context(), userID(c), c.Param("slug"), services.SavePromptInput{
			Content:     req.Content,
			Comment:     req.Comment,
			Model:       req.Model,
			Temperature: req.Temperature,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
}
