package review

import "errors"

var (
	// ErrReviewExists отзыв на бронирование уже оставлен
	ErrReviewExists = errors.New("review.repository: review already exists")

	ErrBuildQuery = errors.New("review.repository: failed to build query")
	ErrExecQuery  = errors.New("review.repository: failed to execute query")
	ErrScanRow    = errors.New("review.repository: failed to scan row")
)
