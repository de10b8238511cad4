package services

import (
	"context"
	"sort"
	"time"

	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
)

type fakePostStore struct {
	posts  map[int64]models.Post
	nextID int64
}

func newFakePostStore(posts ...models.Post) *fakePostStore {
	s := &fakePostStore{posts: map[int64]models.Post{}}
	for _, p := range posts {
		s.posts[p.ID] = p
		if p.ID > s.nextID {
			s.nextID = p.ID
		}
	}
	return s
}

func (s *fakePostStore) Insert(_ context.Context, p *models.Post) (int64, error) {
	s.nextID++
	p.ID = s.nextID
	s.posts[p.ID] = *p
	return p.ID, nil
}

func (s *fakePostStore) FindByID(_ context.Context, id int64) (*models.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *fakePostStore) FindByDateRange(_ context.Context, userID string, start, end time.Time) ([]models.Post, error) {
	from := dayOf(start)
	to := dayOf(end).AddDate(0, 0, 1)
	out := []models.Post{}
	for _, p := range s.posts {
		if p.UserID != userID || p.DeleteFlg {
			continue
		}
		if p.CurrentAt.Before(from) || !p.CurrentAt.Before(to) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentAt.After(out[j].CurrentAt) })
	return out, nil
}

func (s *fakePostStore) UpdateFields(_ context.Context, id int64, u models.PostUpdate) error {
	p, ok := s.posts[id]
	if !ok {
		return ErrNotFound
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
	if u.DeleteFlg != nil {
		p.DeleteFlg = *u.DeleteFlg
	}
	s.posts[id] = p
	return nil
}

func (s *fakePostStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type fakePromptStore struct {
	versions []models.PromptVersion
}

func (s *fakePromptStore) FindActive(_ context.Context, slug string) (*models.PromptVersion, error) {
	for _, v := range s.versions {
		if v.Slug == slug && v.IsActive {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakePromptStore) History(_ context.Context, slug string) ([]models.PromptVersion, error) {
	out := []models.PromptVersion{}
	for i := len(s.versions) - 1; i >= 0; i-- {
		if s.versions[i].Slug == slug {
			out = append(out, s.versions[i])
		}
	}
	return out, nil
}

func (s *fakePromptStore) SaveVersion(_ context.Context, v *models.PromptVersion) error {
	latest := 0
	for i := range s.versions {
		if s.versions[i].Slug == v.Slug {
			s.versions[i].IsActive = false
			latest = max(latest, s.versions[i].Version)
		}
	}
	v.Version = latest + 1
	v.IsActive = true
	s.versions = append(s.versions, *v)
	return nil
}

type fakeBatchReader struct {
	batches map[int64]models.AIBatch
}

func (r *fakeBatchReader) FindByID(_ context.Context, id int64) (*models.AIBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *fakeBatchReader) ListByPeriod(_ context.Context, userID string, _, _ time.Time) ([]models.AIBatch, error) {
	out := []models.AIBatch{}
	for _, b := range r.batches {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeRunner struct {
	userID   string
	posts    []models.Post
	template string
}

func (r *fakeRunner) Run(_ context.Context, userID string, posts []models.Post, promptTemplate string, _ refinement.ProgressFunc) (*refinement.Outcome, error) {
	r.userID, r.posts, r.template = userID, posts, promptTemplate
	return &refinement.Outcome{BatchID: 1}, nil
}

type fakeApplier struct {
	calls int
	items []refinement.ReviewItem
}

func (a *fakeApplier) Apply(_ context.Context, _ int64, items []refinement.ReviewItem) error {
	a.calls++
	a.items = items
	return nil
}

type fakeTagStore struct {
	tags   []models.Tag
	nextID int64
	orders []models.TagOrder
}

func (s *fakeTagStore) ListByUser(_ context.Context, userID string) ([]models.Tag, error) {
	out := []models.Tag{}
	for _, t := range s.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTagStore) ListActiveSendable(ctx context.Context, userID string) ([]models.Tag, error) {
	return s.ListByUser(ctx, userID)
}

func (s *fakeTagStore) FindByID(_ context.Context, userID string, id int64) (*models.Tag, error) {
	for _, t := range s.tags {
		if t.ID == id && t.UserID == userID {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeTagStore) Insert(_ context.Context, t *models.Tag) (int64, error) {
	s.nextID++
	t.ID = s.nextID
	s.tags = append(s.tags, *t)
	return t.ID, nil
}

func (s *fakeTagStore) Replace(_ context.Context, t *models.Tag) error {
	for i := range s.tags {
		if s.tags[i].ID == t.ID && s.tags[i].UserID == t.UserID {
			s.tags[i] = *t
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeTagStore) Delete(_ context.Context, userID string, id int64) error {
	for i := range s.tags {
		if s.tags[i].ID == id && s.tags[i].UserID == userID {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeTagStore) Reorder(_ context.Context, _ string, orders []models.TagOrder) error {
	s.orders = orders
	return nil
}

type fakeLogReader struct {
	logs []models.AIExecutionLog
}

func (r *fakeLogReader) ListByBatch(_ context.Context, batchID int64) ([]models.AIExecutionLog, error) {
	out := []models.AIExecutionLog{}
	for _, l := range r.logs {
		if l.BatchID == batchID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeHistoryReader struct {
	rows []models.AIRefinementHistory
}

func (r *fakeHistoryReader) ListByBatch(_ context.Context, batchID int64) ([]models.AIRefinementHistory, error) {
	out := []models.AIRefinementHistory{}
	for _, h := range r.rows {
		if h.BatchID == batchID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHistoryReader) ListByPostIDs(_ context.Context, postIDs []int64) ([]models.AIRefinementHistory, error) {
	want := map[int64]bool{}
	for _, id := range postIDs {
		want[id] = true
	}
	out := []models.AIRefinementHistory{}
	for _, h := range r.rows {
		if want[h.PostID] {
			out = append(out, h)
		}
	}
	return out, nil
}
