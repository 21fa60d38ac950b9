package domain

import "errors"

var (
	ErrAnalysisFailed     = errors.New("analysis failed")
	ErrEmptyText          = errors.New("text is empty")
	ErrNotEmoji           = errors.New("not an emoji")
	ErrHistoryUnavailable = errors.New("history store unavailable")
	ErrHistoryNotFound    = errors.New("history entry not found")
)
