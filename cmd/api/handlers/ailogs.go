package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListBatchesHandler godoc
// @Summary      List refinement batches
// @Tags         ai-logs
// @Param        X-User-Id  header  string  true   "User ID"
// @Param        start      query   string  false  "YYYY-MM-DD (default today)"
// @Param        end        query   string  false  "YYYY-MM-DD (default today)"
// @Produce      json
// @Success      200  {array}   models.AIBatch
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /refinement/batches [get]
func ListBatchesHandler(svc AILogAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end, err := queryDateRange(c)
		if err != nil {
			writeError(c, err)
			return
		}
		batches, err := svc.ListBatches(c.Request.Context(), userID(c), start, end)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, batches)
	}
}

// ExecutionLogsHandler godoc
// @Summary      Execution logs of a batch
// @Tags         ai-logs
// @Param        X-User-Id  header  string  true  "User ID"
// @Param        id         path    int     true  "Batch ID"
// @Produce      json
// @Success      200  {array}   models.AIExecutionLog
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /refinement/batches/{id}/logs [get]
func ExecutionLogsHandler(svc AILogAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		logs, err := svc.ExecutionLogs(c.Request.Context(), userID(c), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

// BatchHistoriesHandler godoc
// @Summary      Refinement histories of a batch
// @Tags         ai-logs
// @Param        X-User-Id  header  string  true  "User ID"
// @Param        id         path    int     true  "Batch ID"
// @Produce      json
// @Success      200  {array}   models.AIRefinementHistory
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /refinement/batches/{id}/histories [get]
func BatchHistoriesHandler(svc AILogAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		rows, err := svc.Histories(c.Request.Context(), userID(c), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// PostHistoriesHandler godoc
// @Summary      Refinement histories of posts
// @Tags         ai-logs
// @Param        X-User-Id  header  string   true  "User ID"
// @Param        post_id    query   []int    true  "Post IDs (repeat or comma separated)"
// @Produce      json
// @Success      200  {array}   models.AIRefinementHistory
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /refinement/histories [get]
func PostHistoriesHandler(svc AILogAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := queryIDs(c, "post_id")
		if err != nil {
			writeError(c, err)
			return
		}
		rows, err := svc.HistoriesByPosts(c.Request.Context(), userID(c), ids)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
