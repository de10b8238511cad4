package services

import (
	"errors"

	"github.com/sickboy0001/ZeSecThinkV2/repositories"
)

var (
	// ErrNotFound 는 대상이 없거나 요청한 사용자의 것이 아닐 때 반환한다.
	ErrNotFound     = repositories.ErrNotFound
	ErrInvalidInput = errors.New("invalid input")
)
