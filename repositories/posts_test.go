package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStartOfDay(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	got := startOfDay(time.Date(2026, 3, 5, 23, 59, 1, 5, jst))
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, jst), got)
}

func TestNotFoundMapsNoDocuments(t *testing.T) {
	assert.ErrorIs(t, notFound(mongo.ErrNoDocuments), ErrNotFound)

	other := errors.New("socket closed")
	assert.Equal(t, other, notFound(other))
}
