package refinement

import (
	"context"
	"fmt"
	"sort"

	"github.com/sickboy0001/ZeSecThinkV2/models"
)

type snapshotTag struct {
	Name        string   `json:"name"`
	TagName     string   `json:"tag_name"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
}

// TagSnapshotProvider serializes the tags that are sent to the API as context.
type TagSnapshotProvider struct {
	tags TagSource
}

func NewTagSnapshotProvider(tags TagSource) *TagSnapshotProvider {
	return &TagSnapshotProvider{tags: tags}
}

// Snapshot returns {"request_taglist": [...]} for the user's active, AI-eligible
// tags in display order. A store error is returned as is; no partial snapshot.
func (p *TagSnapshotProvider) Snapshot(ctx context.Context, userID string) (string, error) {
	tags, err := p.tags.ListActiveSendable(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("tag snapshot: %w", err)
	}

	eligible := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		if t.IsActive && t.IsSendAI {
			eligible = append(eligible, t)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].DisplayOrder < eligible[j].DisplayOrder
	})

	entries := make([]snapshotTag, 0, len(eligible))
	for _, t := range eligible {
		aliases := t.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		entries = append(entries, snapshotTag{
			Name:        t.Name,
			TagName:     t.TagName,
			Aliases:     aliases,
			Description: t.Description,
		})
	}

	out, err := marshalIndent(struct {
		RequestTaglist []snapshotTag `json:"request_taglist"`
	}{entries})
	if err != nil {
		return "", fmt.Errorf("tag snapshot: %w", err)
	}
	return out, nil
}
