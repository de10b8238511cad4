package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

// PostStore is the persistence used by PostService.
type PostStore interface {
	Insert(ctx context.Context, p *models.Post) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	FindByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Post, error)
	UpdateFields(ctx context.Context, id int64, u models.PostUpdate) error
	Delete(ctx context.Context, id int64) error
}

// PostService encapsulates business logic for journal posts.
type PostService struct {
	repo PostStore
}

func NewPostService(repo PostStore) *PostService {
	return &PostService{repo: repo}
}

type CreatePostInput struct {
	CurrentAt        time.Time
	Title            string
	Content          string
	Tags             []string
	Second           int
	PublicFlg        bool
	PublicContentFlg bool
}

// ListByDateRange returns the user's posts whose day lies within [start, end].
func (s *PostService) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.Post, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start must not be after end", ErrInvalidInput)
	}
	return s.repo.FindByDateRange(ctx, userID, start, end)
}

func (s *PostService) Create(ctx context.Context, userID string, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title or content is required", ErrInvalidInput)
	}
	if in.Second < 0 {
		return nil, fmt.Errorf("%w: second must not be negative", ErrInvalidInput)
	}
	currentAt := in.CurrentAt
	if currentAt.IsZero() {
		currentAt = time.Now()
	}
	p := &models.Post{
		UserID:           userID,
		CurrentAt:        currentAt,
		Title:            in.Title,
		Content:          in.Content,
		Tags:             normalizeTags(in.Tags),
		Second:           in.Second,
		PublicFlg:        in.PublicFlg,
		PublicContentFlg: in.PublicContentFlg,
	}
	if _, err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial update to a post owned by userID.
func (s *PostService) Update(ctx context.Context, userID string, id int64, u models.PostUpdate) (*models.Post, error) {
	if u.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if u.Tags != nil {
		tags := normalizeTags(*u.Tags)
		u.Tags = &tags
	}
	if err := s.repo.UpdateFields(ctx, id, u); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// SoftDelete hides a post by setting delete_flg.
func (s *PostService) SoftDelete(ctx context.Context, userID string, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	deleted := true
	return s.repo.UpdateFields(ctx, id, models.PostUpdate{DeleteFlg: &deleted})
}

// DeletePermanently removes the post document.
func (s *PostService) DeletePermanently(ctx context.Context, userID string, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// DailySummary aggregates the last days days up to and including now's day.
// Days without posts are reported with zero values.
func (s *PostService) DailySummary(ctx context.Context, userID string, days int, now time.Time) ([]models.DailySummary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	start := now.AddDate(0, 0, -(days - 1))
	posts, err := s.repo.FindByDateRange(ctx, userID, start, now)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.DailySummary, 0, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(time.DateOnly)
		index[key] = i
		summaries = append(summaries, models.DailySummary{Date: key})
	}
	for _, p := range posts {
		i, ok := index[p.CurrentAt.In(now.Location()).Format(time.DateOnly)]
		if !ok {
			continue
		}
		summaries[i].PostCount++
		summaries[i].TotalSeconds += p.Second
		summaries[i].TotalChars += utf8.RuneCountInString(p.Content)
	}
	return summaries, nil
}

func (s *PostService) owned(ctx context.Context, userID string, id int64) (*models.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotFound
	}
	return p, nil
}

// normalizeTags trims, drops empty labels and removes duplicates keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// IsNotFound reports whether err means a missing or foreign resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
