package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActiveFallsBackToDefault(t *testing.T) {
	svc := NewPromptService(&fakePromptStore{}, "gemini-test")

	v, err := svc.GetActive(context.Background(), SlugTypo)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Version)
	assert.True(t, strings.Contains(v.Content, "{{memo}}"))
	assert.True(t, strings.Contains(v.Content, "{{tags}}"))
	assert.Equal(t, "gemini-test", v.ModelConfig.Model)
}

func TestSaveCreatesNextActiveVersion(t *testing.T) {
	store := &fakePromptStore{}
	svc := NewPromptService(store, "gemini-test")
	ctx := context.Background()

	_, err := svc.Save(ctx, "u1", SlugTypo, SavePromptInput{Content: "v1 {{memo}}"})
	require.NoError(t, err)
	v2, err := svc.Save(ctx, "u1", SlugTypo, SavePromptInput{Content: "v2 {{memo}}", Comment: "shorter", Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)

	active, err := svc.GetActive(ctx, SlugTypo)
	require.NoError(t, err)
	assert.Equal(t, "v2 {{memo}}", active.Content)

	history, err := svc.History(ctx, SlugTypo)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Version)
	assert.False(t, history[1].IsActive)
}

func TestPromptValidation(t *testing.T) {
	svc := NewPromptService(&fakePromptStore{}, "")
	ctx := context.Background()

	_, err := svc.GetActive(ctx, "unknown")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Save(ctx, "u1", SlugWeekSummary, SavePromptInput{Content: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Save(ctx, "u1", SlugWeekSummary, SavePromptInput{Content: "x", Temperature: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
