package reviews

import "errors"

var (
	ErrBookingNotFound = errors.New("reviews: booking not found")
	ErrAccessDenied    = errors.New("reviews: booking belongs to another user")

	// ErrNotReviewable отзыв можно оставить только после завершенного проживания
	ErrNotReviewable   = errors.New("reviews: booking is not completed")
	ErrAlreadyReviewed = errors.New("reviews: booking already reviewed")
	ErrInvalidInput    = errors.New("reviews: invalid input data")
	ErrInternal        = errors.New("reviews: internal error")
)
