package refinement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/eventbus"
	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/repositories"
)

// memStore implements every store interface in memory.
type memStore struct {
	mu sync.Mutex

	tags    []models.Tag
	tagsErr error

	batches          map[int64]*models.AIBatch
	batchCreateErr   error
	progressObserved []int

	logs      []models.AIExecutionLog
	logErr    error
	histories []models.AIRefinementHistory
	posts     map[int64]models.Post
	postErr   map[int64]error

	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		batches: map[int64]*models.AIBatch{},
		posts:   map[int64]models.Post{},
		postErr: map[int64]error{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) ListActiveSendable(_ context.Context, _ string) ([]models.Tag, error) {
	if m.tagsErr != nil {
		return nil, m.tagsErr
	}
	return m.tags, nil
}

func (m *memStore) Create(_ context.Context, b *models.AIBatch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.batchCreateErr != nil {
		return 0, m.batchCreateErr
	}
	b.ID = m.id()
	b.Status = models.BatchStatusProcessing
	b.CompletedChunks = 0
	cp := *b
	m.batches[b.ID] = &cp
	return b.ID, nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (*models.AIBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) UpdateProgress(_ context.Context, id int64, completed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batches[id]
	if b.Status == models.BatchStatusProcessing && b.CompletedChunks <= completed && completed <= b.TotalChunks {
		b.CompletedChunks = completed
	}
	m.progressObserved = append(m.progressObserved, b.CompletedChunks)
	return nil
}

func (m *memStore) UpdateStatus(_ context.Context, id int64, status models.BatchStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.batches[id]
	if b.Status == models.BatchStatusProcessing {
		b.Status = status
	}
	return nil
}

func (m *memStore) Insert(_ context.Context, log *models.AIExecutionLog) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.logErr != nil {
		return 0, m.logErr
	}
	log.ID = m.id()
	m.logs = append(m.logs, *log)
	return log.ID, nil
}

func (m *memStore) InsertMany(_ context.Context, rows []models.AIRefinementHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		r.ID = m.id()
		m.histories = append(m.histories, r)
	}
	return nil
}

func (m *memStore) FindByBatchAndPost(_ context.Context, batchID, postID int64) (*models.AIRefinementHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.histories {
		if h.BatchID == batchID && h.PostID == postID {
			cp := h
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memStore) MarkApplied(_ context.Context, id int64, c models.AppliedContent, isEdited bool, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.histories {
		if m.histories[i].ID != id {
			continue
		}
		h := &m.histories[i]
		tags := models.EncodeTags(c.Tags)
		h.Applied = true
		h.AppliedAt = &at
		h.FixedTitle = &c.Title
		h.FixedText = &c.Text
		h.FixedTags = &tags
		h.IsEdited = isEdited
		return nil
	}
	return repositories.ErrNotFound
}

func (m *memStore) UpdateFields(_ context.Context, id int64, u models.PostUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.postErr[id]; err != nil {
		return err
	}
	p, ok := m.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Tags != nil {
		p.Tags = *u.Tags
	}
	if u.PublicFlg != nil {
		p.PublicFlg = *u.PublicFlg
	}
	m.posts[id] = p
	return nil
}

func (m *memStore) batch(id int64) models.AIBatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.batches[id]
}

// scriptedGenerator answers each call through reply; calls are counted.
type scriptedGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	reply   func(call int, prompt string) (*gemini.Generation, error)
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (*gemini.Generation, error) {
	g.mu.Lock()
	g.calls++
	call := g.calls
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.reply(call, prompt)
}

const testTemplate = "fix these memos\n{{memo}}\n---\n{{tags}}"

// echoResults builds a refinement_results document for the memos in prompt,
// prefixing every title with "fixed:".
func echoResults(prompt string) string {
	body := strings.TrimPrefix(prompt, "fix these memos\n")
	body = body[:strings.Index(body, "\n---\n")]

	var req struct {
		RequestMemo []requestMemo `json:"request_memo"`
	}
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		panic(err)
	}
	resp := Response{RefinementResults: []RefinementResult{}}
	for _, m := range req.RequestMemo {
		resp.RefinementResults = append(resp.RefinementResults, RefinementResult{
			ID:           m.ID,
			OriginalText: m.Text,
			FixedTitle:   "fixed:" + m.Title,
			FixedText:    m.Text,
			FixedTags:    m.Tags,
			Changes:      []string{"typo"},
		})
	}
	out, _ := json.Marshal(resp)
	return "```json\n" + string(out) + "\n```"
}

func echoGenerator() *scriptedGenerator {
	return &scriptedGenerator{reply: func(_ int, prompt string) (*gemini.Generation, error) {
		return &gemini.Generation{Text: echoResults(prompt), Model: "gemini-test", APIVersion: "v1beta"}, nil
	}}
}

func makePosts(n int) []models.Post {
	posts := make([]models.Post, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, models.Post{
			ID:      int64(i),
			UserID:  "u1",
			Title:   fmt.Sprintf("title %d", i),
			Content: fmt.Sprintf("text %d", i),
			Tags:    []string{"life"},
		})
	}
	return posts
}

// sleepRecorder records requested waits without sleeping.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []eventbus.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event eventbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

var errBoom = errors.New("boom")
