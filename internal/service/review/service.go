package review

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/commerce"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("you have already reviewed this vehicle")
	ErrNotOwner        = errors.New("you can only change your own reviews")
	ErrInvalidReview   = errors.New("invalid review")
	ErrUserRequired    = errors.New("user id is required")
)

// Service stores vehicle reviews in memory.
type Service struct {
	vehicles catalog.Store
	now      func() time.Time

	mu      sync.RWMutex
	reviews map[string]commerce.Review
}

// NewService creates an empty review service.
func NewService(vehicles catalog.Store) *Service {
	return &Service{
		vehicles: vehicles,
		now:      time.Now,
		reviews:  make(map[string]commerce.Review),
	}
}

// ListByVehicle returns a vehicle's reviews, newest first.
func (s *Service) ListByVehicle(vehicleID string) ([]commerce.Review, error) {
	if err := s.requireVehicle(vehicleID); err != nil {
		return nil, err
	}
	return s.collect(func(r commerce.Review) bool { return r.VehicleID == vehicleID }), nil
}

// ListVerified returns only verified reviews for a vehicle, newest first.
func (s *Service) ListVerified(vehicleID string) ([]commerce.Review, error) {
	if err := s.requireVehicle(vehicleID); err != nil {
		return nil, err
	}
	return s.collect(func(r commerce.Review) bool { return r.VehicleID == vehicleID && r.Verified }), nil
}

// ListByUser returns every review a user wrote, newest first.
func (s *Service) ListByUser(userID string) []commerce.Review {
	return s.collect(func(r commerce.Review) bool { return r.UserID == userID })
}

// Create adds a review. A user may review each vehicle once.
func (s *Service) Create(userID, vehicleID string, in commerce.ReviewInput) (commerce.Review, error) {
	if userID == "" {
		return commerce.Review{}, ErrUserRequired
	}
	if err := s.requireVehicle(vehicleID); err != nil {
		return commerce.Review{}, err
	}
	in, err := validate(in)
	if err != nil {
		return commerce.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.UserID == userID && r.VehicleID == vehicleID {
			return commerce.Review{}, ErrAlreadyReviewed
		}
	}

	now := s.now()
	r := commerce.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		VehicleID: vehicleID,
		Title:     in.Title,
		Content:   in.Content,
		Rating:    in.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.reviews[r.ID] = r
	return r, nil
}

// Update replaces title, content and rating of the caller's own review.
func (s *Service) Update(reviewID, userID string, in commerce.ReviewInput) (commerce.Review, error) {
	in, err := validate(in)
	if err != nil {
		return commerce.Review{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.owned(reviewID, userID)
	if err != nil {
		return commerce.Review{}, err
	}
	r.Title = in.Title
	r.Content = in.Content
	r.Rating = in.Rating
	r.UpdatedAt = s.now()
	s.reviews[reviewID] = r
	return r, nil
}

// Delete removes the caller's own review.
func (s *Service) Delete(reviewID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owned(reviewID, userID); err != nil {
		return err
	}
	delete(s.reviews, reviewID)
	return nil
}

// Verify marks a review as coming from a confirmed buyer.
func (s *Service) Verify(reviewID string) (commerce.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[reviewID]
	if !ok {
		return commerce.Review{}, fmt.Errorf("%w: %s", ErrReviewNotFound, reviewID)
	}
	r.Verified = true
	s.reviews[reviewID] = r
	return r, nil
}

// Stats aggregates ratings for a vehicle. Every rating 1..5 is present in the
// distribution, possibly with a zero count.
func (s *Service) Stats(vehicleID string) (commerce.ReviewStats, error) {
	reviews, err := s.ListByVehicle(vehicleID)
	if err != nil {
		return commerce.ReviewStats{}, err
	}

	stats := commerce.ReviewStats{RatingDistribution: make(map[int]int, 5)}
	for rating := 1; rating <= 5; rating++ {
		stats.RatingDistribution[rating] = 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		stats.RatingDistribution[r.Rating]++
	}
	stats.ReviewCount = len(reviews)
	if stats.ReviewCount > 0 {
		stats.AverageRating = float64(sum) / float64(stats.ReviewCount)
	}
	return stats, nil
}

func (s *Service) owned(reviewID, userID string) (commerce.Review, error) {
	r, ok := s.reviews[reviewID]
	if !ok {
		return commerce.Review{}, fmt.Errorf("%w: %s", ErrReviewNotFound, reviewID)
	}
	if r.UserID != userID {
		return commerce.Review{}, ErrNotOwner
	}
	return r, nil
}

func (s *Service) requireVehicle(vehicleID string) error {
	if _, ok := s.vehicles.FindByID(vehicleID); !ok {
		return fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleID)
	}
	return nil
}

func (s *Service) collect(keep func(commerce.Review) bool) []commerce.Review {
	s.mu.RLock()
	result := make([]commerce.Review, 0)
	for _, r := range s.reviews {
		if keep(r) {
			result = append(result, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func validate(in commerce.ReviewInput) (commerce.ReviewInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	if n := utf8.RuneCountInString(in.Title); n < 5 || n > 100 {
		return in, fmt.Errorf("%w: title must be between 5 and 100 characters", ErrInvalidReview)
	}
	if n := utf8.RuneCountInString(in.Content); n < 10 || n > 1000 {
		return in, fmt.Errorf("%w: content must be between 10 and 1000 characters", ErrInvalidReview)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return in, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
	}
	return in, nil
}
