package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/PetBoardingService/internal/domain"
	bookingRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/booking"
	reviewRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/review"
	"github.com/m04kA/PetBoardingService/internal/service/reviews/models"
)

const publicListLimit = 50

// Service отзывы о проживании
type Service struct {
	reviewRepo  ReviewRepository
	bookingRepo BookingRepository
	logger      Logger
}

func NewService(reviewRepo ReviewRepository, bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Create отзыв владельца на завершенное бронирование, не больше одного на бронирование
func (s *Service) Create(ctx context.Context, userID, bookingID int64, req *models.CreateRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Create: review for booking id=%d by user=%d rating=%d", bookingID, userID, req.Rating)

	if req.Rating < domain.MinReviewRating || req.Rating > domain.MaxReviewRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinReviewRating, domain.MaxReviewRating)
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) > domain.MaxReviewCommentLength {
		return nil, fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, domain.MaxReviewCommentLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Create: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Create - get booking: %v", ErrInternal, err)
	}
	if !booking.IsOwnedBy(userID) {
		s.logger.Warn("Create: user=%d is not the owner of booking id=%d", userID, bookingID)
		return nil, ErrAccessDenied
	}
	if booking.Status != domain.StatusCompleted {
		return nil, ErrNotReviewable
	}

	review, err := s.reviewRepo.Create(ctx, &domain.Review{
		BookingID:   booking.ID,
		UserID:      userID,
		AuthorName:  booking.Customer.Name,
		Rating:      req.Rating,
		Comment:     comment,
		IsPublished: true,
	})
	if err != nil {
		if errors.Is(err, reviewRepo.ErrReviewExists) {
			return nil, ErrAlreadyReviewed
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainReview(review)
	return &resp, nil
}

// ListPublished опубликованные отзывы, новые первыми
func (s *Service) ListPublished(ctx context.Context) ([]models.ReviewResponse, error) {
	items, err := s.reviewRepo.ListPublished(ctx, publicListLimit)
	if err != nil {
		s.logger.Error("ListPublished: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListPublished - repository error: %v", ErrInternal, err)
	}

	res := make([]models.ReviewResponse, 0, len(items))
	for _, r := range items {
		res = append(res, models.FromDomainReview(r))
	}
	return res, nil
}
