package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/dto"
	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/trace"
	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

const (
	eventLog    = "log"
	eventResult = "result"
	eventError  = "error"
)

// eventStream 은 첫 이벤트를 쓸 때 SSE 헤더를 보낸다.
// 그 전에 실패하면 일반 JSON 에러 응답을 그대로 쓸 수 있다.
type eventStream struct {
	c       *gin.Context
	started bool
}

func (s *eventStream) send(event string, data any) {
	if !s.started {
		s.c.Header("Content-Type", "text/event-stream")
		s.c.Header("Cache-Control", "no-cache")
		s.c.Header("Connection", "keep-alive")
		s.c.Header("X-Accel-Buffering", "no")
		s.started = true
	}
	s.c.SSEvent(event, data)
	s.c.Writer.Flush()
}

// RunBatchHandler godoc
// @Summary      Run refinement batch
// @Description  Sends the selected posts to the generative API in chunks. Progress lines are
// @Description  streamed as SSE "log" events; the stream ends with a "result" or "error" event.
// @Tags         refinement
// @Param        X-User-Id  header  string                  true  "User ID"
// @Param        body       body    dto.RunBatchRequestDTO  true  "selection"
// @Accept       json
// @Produce      text/event-stream
// @Success      200  {object}  dto.RunBatchResultDTO  "payload of the result event"
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      422  {object}  dto.ErrorResponseDTO  "no posts in range"
// @Router       /refinement/batches [post]
func RunBatchHandler(svc RefinementAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RunBatchRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Detail: err.Error()})
			return
		}
		start, end, err := dateRange(req.Start, req.End)
		if err != nil {
			writeError(c, err)
			return
		}

		ctx := c.Request.Context()
		requestID, step := trace.NextStep(ctx)
		uid := userID(c)
		config.InfoWithFields("refinement batch requested", config.Fields{
			"request_id": requestID,
			"step":       step,
			"user_id":    uid,
			"start":      req.Start,
			"end":        req.End,
			"post_ids":   len(req.PostIDs),
		})

		stream := &eventStream{c: c}
		outcome, err := svc.Run(ctx, services.RunBatchInput{
			UserID:     uid,
			Start:      start,
			End:        end,
			PostIDs:    req.PostIDs,
			PromptSlug: req.PromptSlug,
			Prompt:     req.Prompt,
		}, func(line string) {
			stream.send(eventLog, line)
		})
		if err != nil {
			status, code := normalizeError(err)
			if !stream.started {
				writeError(c, err)
				return
			}
			config.ErrorWithFields("refinement batch failed", config.Fields{
				"request_id": requestID,
				"user_id":    uid,
				"error":      err.Error(),
			})
			body := errorBody(status, code, err)
			body.Detail = err.Error()
			stream.send(eventError, body)
			return
		}

		stream.send(eventResult, dto.RunBatchResultDTO{
			BatchID: outcome.BatchID,
			Results: outcome.Results,
			RawText: outcome.RawText,
		})
	}
}

// ApplyBatchHandler godoc
// @Summary      Apply reviewed results
// @Description  Writes the reviewed title/text/tags back to the posts and marks the history rows
// @Description  applied. Writes are independent; a partial failure returns 207 with the failed ids.
// @Tags         refinement
// @Param        X-User-Id  header  string               true  "User ID"
// @Param        id         path    int                  true  "Batch ID"
// @Param        body       body    dto.ApplyRequestDTO  true  "review decisions"
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ApplyResponseDTO
// @Success      207  {object}  dto.ApplyResponseDTO  "some posts failed"
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /refinement/batches/{id}/apply [post]
func ApplyBatchHandler(svc RefinementAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		batchID, err := pathID(c)
		if err != nil {
			writeError(c, err)
			return
		}
		var req dto.ApplyRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request", Detail: err.Error()})
			return
		}

		items := make([]refinement.ReviewItem, 0, len(req.Items))
		selected := 0
		for _, it := range req.Items {
			if it.ShouldApply {
				selected++
			}
			items = append(items, refinement.ReviewItem{
				PostID:      it.PostID,
				Title:       it.Title,
				Text:        it.Text,
				Tags:        it.Tags,
				PublicFlg:   it.PublicFlg,
				ShouldApply: it.ShouldApply,
			})
		}

		err = svc.Apply(c.Request.Context(), userID(c), batchID, items)
		var reconcileErr *refinement.ReconcileError
		if errors.As(err, &reconcileErr) {
			failed := reconcileErr.FailedIDs()
			config.WarnWithFields("apply partially failed", config.Fields{
				"request_id": trace.RequestIDFromContext(c.Request.Context()),
				"batch_id":   batchID,
				"failed":     failed,
			})
			c.JSON(http.StatusMultiStatus, dto.ApplyResponseDTO{Applied: selected - len(failed), FailedPostIDs: failed})
			return
		}
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ApplyResponseDTO{Applied: selected, FailedPostIDs: []int64{}})
	}
}
