package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/dto"
	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/trace"
	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/gemini"
)

// GeminiHandler godoc
// @Summary      Generative proxy
// @Description  Sends a single prompt to Gemini. Errors keep the upstream status code.
// @Tags         gemini
// @Param        X-User-Id  header  string                true  "User ID"
// @Param        body       body    dto.GeminiRequestDTO  true  "prompt"
// @Accept       json
// @Produce      json
// @Success      200  {object}  gemini.Generation
// @Failure      400  {object}  dto.GeminiErrorDTO
// @Failure      503  {object}  dto.GeminiErrorDTO
// @Failure      500  {object}  dto.GeminiErrorDTO
// @Router       /gemini [post]
func GeminiHandler(client GeminiAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GeminiRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.GeminiErrorDTO{Error: "prompt is required"})
			return
		}

		requestID, step := trace.NextStep(c.Request.Context())
		gen, err := client.Generate(c.Request.Context(), req.Prompt)
		if err != nil {
			status := gemini.HTTPStatus(err)
			config.ErrorWithFields("gemini request failed", config.Fields{
				"request_id": requestID,
				"step":       step,
				"status":     status,
				"error":      err.Error(),
			})
			c.JSON(status, dto.GeminiErrorDTO{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gen)
	}
}
