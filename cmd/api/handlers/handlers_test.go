package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/dto"
	"github.com/sickboy0001/ZeSecThinkV2/cmd/api/middleware"
	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

func newTestEngine(register func(r gin.IRoutes)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	_, engine := gin.CreateTestContext(httptest.NewRecorder())
	register(engine.Group("/", middleware.RequireUser()))
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponseDTO {
	t.Helper()
	var body dto.ErrorResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListPostsParsesDateRange(t *testing.T) {
	posts := &fakePosts{}
	engine := newTestEngine(func(r gin.IRoutes) { r.GET("/posts", ListPostsHandler(posts)) })

	rec := doRequest(t, engine, http.MethodGet, "/posts?start=2026-03-01&end=2026-03-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-03-01", posts.listStart.Format(time.DateOnly))
	assert.Equal(t, "2026-03-07", posts.listEnd.Format(time.DateOnly))

	rec = doRequest(t, engine, http.MethodGet, "/posts?start=03/01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Error)
}

func TestPostErrorsAreNormalized(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "not found", err: services.ErrNotFound, wantCode: http.StatusNotFound, wantBody: "not_found"},
		{name: "invalid", err: services.ErrInvalidInput, wantCode: http.StatusBadRequest, wantBody: "invalid_request"},
		{name: "unexpected", err: errBoom, wantCode: http.StatusInternalServerError, wantBody: "internal_error"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			posts := &fakePosts{err: testCase.err}
			engine := newTestEngine(func(r gin.IRoutes) { r.DELETE("/posts/:id", DeletePostHandler(posts)) })

			rec := doRequest(t, engine, http.MethodDelete, "/posts/3", nil)
			assert.Equal(t, testCase.wantCode, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, testCase.wantBody, body.Error)
			if testCase.wantCode >= 500 {
				assert.Empty(t, body.Detail)
			}
		})
	}
}

func TestUpdatePostPassesOnlySuppliedFields(t *testing.T) {
	posts := &fakePosts{}
	engine := newTestEngine(func(r gin.IRoutes) { r.PATCH("/posts/:id", UpdatePostHandler(posts)) })

	rec := doRequest(t, engine, http.MethodPatch, "/posts/5", map[string]any{"title": "new", "public_flg": false})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, posts.updated.Title)
	assert.Equal(t, "new", *posts.updated.Title)
	require.NotNil(t, posts.updated.PublicFlg)
	assert.False(t, *posts.updated.PublicFlg)
	assert.Nil(t, posts.updated.Content)
	assert.Nil(t, posts.updated.Tags)

	rec = doRequest(t, engine, http.MethodPatch, "/posts/abc", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDailySummaryDefaultsToSevenDays(t *testing.T) {
	posts := &fakePosts{}
	engine := newTestEngine(func(r gin.IRoutes) { r.GET("/posts/summary", DailySummaryHandler(posts)) })

	rec := doRequest(t, engine, http.MethodGet, "/posts/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, posts.summaryLen)
}

func TestMissingUserHeaderIsRejected(t *testing.T) {
	posts := &fakePosts{}
	engine := newTestEngine(func(r gin.IRoutes) { r.GET("/posts", ListPostsHandler(posts)) })

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing_user_id", decodeError(t, rec).Error)
}

func TestRunBatchStreamsProgressThenResult(t *testing.T) {
	svc := &fakeRefinement{
		lines: []string{"[09:00:00] started: 2 posts split into 1 chunk(s).", "[09:00:01] all chunks completed."},
		outcome: &refinement.Outcome{
			BatchID: 7,
			Results: []refinement.RefinementResult{{ID: 1, FixedTitle: "t"}},
			RawText: "{}",
		},
	}
	engine := newTestEngine(func(r gin.IRoutes) { r.POST("/refinement/batches", RunBatchHandler(svc)) })

	rec := doRequest(t, engine, http.MethodPost, "/refinement/batches", dto.RunBatchRequestDTO{
		Start:   "2026-03-01",
		End:     "2026-03-07",
		PostIDs: []int64{1, 2},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	started := strings.Index(body, "started: 2 posts")
	completed := strings.Index(body, "all chunks completed.")
	result := strings.Index(body, "event:result")
	assert.True(t, started >= 0 && started < completed && completed < result, body)
	assert.Contains(t, body, `"batch_id":7`)
	assert.Equal(t, []int64{1, 2}, svc.runInput.PostIDs)
	assert.Equal(t, "u1", svc.runInput.UserID)
}

func TestRunBatchErrorBeforeStreamIsJSON(t *testing.T) {
	svc := &fakeRefinement{err: refinement.ErrNoPosts}
	engine := newTestEngine(func(r gin.IRoutes) { r.POST("/refinement/batches", RunBatchHandler(svc)) })

	rec := doRequest(t, engine, http.MethodPost, "/refinement/batches", dto.RunBatchRequestDTO{Start: "2026-03-01", End: "2026-03-01"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "no_posts", decodeError(t, rec).Error)
}

func TestRunBatchErrorAfterStreamIsEvent(t *testing.T) {
	svc := &fakeRefinement{
		lines: []string{"[09:00:00] sending chunk 1/1..."},
		err:   &refinement.ChunkError{ChunkIndex: 1, Attempts: 4, Err: &gemini.StatusError{StatusCode: 503}},
	}
	engine := newTestEngine(func(r gin.IRoutes) { r.POST("/refinement/batches", RunBatchHandler(svc)) })

	rec := doRequest(t, engine, http.MethodPost, "/refinement/batches", dto.RunBatchRequestDTO{Start: "2026-03-01", End: "2026-03-01"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "event:error")
	assert.Contains(t, body, "refinement_failed")
	assert.NotContains(t, body, "event:result")
}

func TestApplyReportsPartialFailure(t *testing.T) {
	svc := &fakeRefinement{applyErr: &refinement.ReconcileError{Total: 2, Failed: map[int64]error{2: errBoom}}}
	engine := newTestEngine(func(r gin.IRoutes) { r.POST("/refinement/batches/:id/apply", ApplyBatchHandler(svc)) })

	rec := doRequest(t, engine, http.MethodPost, "/refinement/batches/7/apply", dto.ApplyRequestDTO{Items: []dto.ReviewItemDTO{
		{PostID: 1, Title: "a", ShouldApply: true},
		{PostID: 2, Title: "b", ShouldApply: true},
		{PostID: 3, ShouldApply: false},
	}})

	require.Equal(t, http.StatusMultiStatus, rec.Code)
	var resp dto.ApplyResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Applied)
	assert.Equal(t, []int64{2}, resp.FailedPostIDs)
	assert.Len(t, svc.applyItems, 3)
}

func TestApplyUnknownBatch(t *testing.T) {
	svc := &fakeRefinement{applyErr: refinement.ErrBatchNotFound}
	engine := newTestEngine(func(r gin.IRoutes) { r.POST("/refinement/batches/:id/apply", ApplyBatchHandler(svc)) })

	rec := doRequest(t, engine, http.MethodPost, "/refinement/batches/99/apply", dto.ApplyRequestDTO{Items: []dto.ReviewItemDTO{{PostID: 1, ShouldApply: true}}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGeminiProxyKeepsUpstreamStatus(t *testing.T) {
	client := &fakeGemini{err: &gemini.StatusError{StatusCode: http.StatusServiceUnavailable, Status: "UNAVAILABLE", Message: "overloaded"}}
	engine := newTestEngine(func(r gin.IRoutes) { r.POST("/gemini", GeminiHandler(client)) })

	rec := doRequest(t, engine, http.MethodPost, "/gemini", dto.GeminiRequestDTO{Prompt: "hi"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	assert.Equal(t, "hi", client.prompt)

	rec = doRequest(t, engine, http.MethodPost, "/gemini", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeminiProxySuccess(t *testing.T) {
	client := &fakeGemini{gen: &gemini.Generation{Text: "fixed", Model: "gemini-test", APIVersion: "v1beta"}}
	engine := newTestEngine(func(r gin.IRoutes) { r.POST("/gemini", GeminiHandler(client)) })

	rec := doRequest(t, engine, http.MethodPost, "/gemini", dto.GeminiRequestDTO{Prompt: "hi"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "fixed", body["text"])
	assert.Equal(t, "gemini-test", body["model"])
	assert.Equal(t, "v1beta", body["apiVersion"])
}

func TestPostHistoriesAcceptsCommaSeparatedIDs(t *testing.T) {
	logs := &fakeAILogs{}
	engine := newTestEngine(func(r gin.IRoutes) {
		r.GET("/refinement/histories", PostHistoriesHandler(logs))
		r.GET("/refinement/batches/:id/logs", ExecutionLogsHandler(logs))
	})

	rec := doRequest(t, engine, http.MethodGet, "/refinement/histories?post_id=1,2&post_id=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 2, 5}, logs.postIDs)

	rec = doRequest(t, engine, http.MethodGet, "/refinement/histories?post_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, engine, http.MethodGet, "/refinement/batches/2/logs", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
