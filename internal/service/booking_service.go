package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/dto"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/promo"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/validation"
	"github.com/siddardha003/BookIt-Experiences-Slots/pkg/database"
	"gorm.io/gorm"
)

const (
	RoutingBookingConfirmed = "booking.confirmed"
	RoutingBookingCancelled = "booking.cancelled"

	afterCommitTimeout = 2 * time.Second
)

// CreateBookingInput carries one reservation request. TotalAmount is the
// amount the client expects to pay; the stored total is always computed here.
type CreateBookingInput struct {
	ExperienceID string `json:"experienceId" validate:"required"`
	ScheduleID   string `json:"scheduleId" validate:"required"`
	FullName     string `json:"fullName" validate:"required,min=2,max=255"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Quantity     int    `json:"quantity" validate:"min=1,max=10"`
	PromoCode    string `json:"promoCode" validate:"omitempty,max=50"`
	TotalAmount  *int64 `json:"totalAmount" validate:"omitempty,gte=0"`
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type CacheInvalidator interface {
	InvalidateExperience(ctx context.Context, id uuid.UUID)
}

type BookingConfig struct {
	MaxAttempts     int
	RetryBackoff    time.Duration
	TaxPercent      int64
	ReferencePrefix string
}

// BookingDeps groups the collaborators of the booking service. Catalog and
// Publisher may be nil.
type BookingDeps struct {
	Tx          repository.Transactor
	Experiences repository.ExperienceRepository
	Schedules   repository.ScheduleRepository
	Bookings    repository.BookingRepository
	Catalog     CacheInvalidator
	Publisher   EventPublisher
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, reference string) (*models.Booking, error)
	GetBooking(ctx context.Context, reference string) (*models.Booking, error)
}

type bookingService struct {
	deps         BookingDeps
	cfg          BookingConfig
	validator    *validation.Validator
	newReference func() (string, error)
	now          func() time.Time
}

func NewBookingService(deps BookingDeps, cfg BookingConfig) BookingService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	prefix := cfg.ReferencePrefix
	return &bookingService{
		deps:      deps,
		cfg:       cfg,
		validator: validation.New(),
		newReference: func() (string, error) {
			return NewReference(prefix)
		},
		now: time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	in.ExperienceID = strings.TrimSpace(in.ExperienceID)
	in.ScheduleID = strings.TrimSpace(in.ScheduleID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.PromoCode = promo.Normalize(in.PromoCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if in.PromoCode != "" {
		if _, ok := promo.Lookup(in.PromoCode); !ok {
			return nil, promo.ErrInvalidCode
		}
	}

	experienceID, err := uuid.Parse(in.ExperienceID)
	if err != nil {
		return nil, ErrScheduleNotFound
	}
	scheduleID, err := uuid.Parse(in.ScheduleID)
	if err != nil {
		return nil, ErrScheduleNotFound
	}

	var result *models.Booking
	err = s.withRetry(ctx, "create booking", func() error {
		b, err := s.reserve(ctx, in, experienceID, scheduleID)
		if err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, classify("create booking", err)
	}

	if in.TotalAmount != nil && *in.TotalAmount != result.TotalAmount {
		log.Printf("[BookingService] booking %s: client total %d differs from server total %d",
			result.ReferenceID, *in.TotalAmount, result.TotalAmount)
	}
	log.Printf("[BookingService] confirmed %s: %d slot(s) on schedule %s", result.ReferenceID, result.Quantity, scheduleID)

	s.afterCommit(ctx, RoutingBookingConfirmed, result)
	return result, nil
}

// reserve runs one booking transaction: lock the schedule, check capacity,
// insert the booking and take the slots.
func (s *bookingService) reserve(ctx context.Context, in CreateBookingInput, experienceID, scheduleID uuid.UUID) (*models.Booking, error) {
	var booking *models.Booking

	err := s.deps.Tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		// 1. Lock the schedule row: concurrent bookings of the same slot queue here
		schedule, err := s.deps.Schedules.FindByIDForUpdate(ctx, tx, scheduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		if schedule.ExperienceID != experienceID {
			return ErrScheduleNotFound
		}

		// 2. Check capacity against the locked row
		if schedule.SlotsAvailable < in.Quantity {
			return &InsufficientCapacityError{Requested: in.Quantity, Remaining: schedule.SlotsAvailable}
		}

		// 3. Price from the catalog, never from the request
		experience, err := s.deps.Experiences.FindByIDTx(ctx, tx, experienceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		pricing, err := Price(experience.Price, in.Quantity, s.cfg.TaxPercent, in.PromoCode)
		if err != nil {
			return err
		}

		ref, err := s.newReference()
		if err != nil {
			return err
		}

		// 4. Insert booking; a reference collision fails on the unique index
		b := &models.Booking{
			ReferenceID:  ref,
			ExperienceID: experienceID,
			ScheduleID:   scheduleID,
			FullName:     in.FullName,
			Email:        in.Email,
			Quantity:     in.Quantity,
			PromoCode:    pricing.PromoCode,
			Subtotal:     pricing.Subtotal,
			Taxes:        pricing.Taxes,
			Discount:     pricing.Discount,
			TotalAmount:  pricing.Total,
			Status:       models.StatusConfirmed,
		}
		if err := s.deps.Bookings.Create(ctx, tx, b); err != nil {
			return err
		}

		// 5. Take the slots
		if err := s.deps.Schedules.DecrementSlots(ctx, tx, scheduleID, in.Quantity); err != nil {
			if errors.Is(err, repository.ErrNotUpdated) {
				return ErrTransientConflict
			}
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking marks the booking cancelled and returns its slots to the
// schedule in the same transaction.
func (s *bookingService) CancelBooking(ctx context.Context, reference string) (*models.Booking, error) {
	ref := strings.ToUpper(strings.TrimSpace(reference))
	if ref == "" {
		return nil, ErrBookingNotFound
	}

	var result *models.Booking
	err := s.withRetry(ctx, "cancel booking", func() error {
		return s.deps.Tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
			booking, err := s.deps.Bookings.FindByReferenceForUpdate(ctx, tx, ref)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrBookingNotFound
				}
				return err
			}

			if !booking.Active() {
				return ErrAlreadyCancelled
			}
			if booking.Status == models.StatusCompleted {
				return ErrNotCancellable
			}

			if _, err := s.deps.Schedules.FindByIDForUpdate(ctx, tx, booking.ScheduleID); err != nil {
				return err
			}
			if err := s.deps.Bookings.UpdateStatus(ctx, tx, booking.ID, models.StatusCancelled); err != nil {
				return err
			}
			if err := s.deps.Schedules.IncrementSlots(ctx, tx, booking.ScheduleID, booking.Quantity); err != nil {
				if errors.Is(err, repository.ErrNotUpdated) {
					return fmt.Errorf("restore %d slot(s) on schedule %s: would exceed capacity", booking.Quantity, booking.ScheduleID)
				}
				return err
			}

			booking.Status = models.StatusCancelled
			result = booking
			return nil
		})
	})
	if err != nil {
		return nil, classify("cancel booking", err)
	}

	log.Printf("[BookingService] cancelled %s: %d slot(s) returned to schedule %s", result.ReferenceID, result.Quantity, result.ScheduleID)
	s.afterCommit(ctx, RoutingBookingCancelled, result)
	return result, nil
}

func (s *bookingService) GetBooking(ctx context.Context, reference string) (*models.Booking, error) {
	ref := strings.ToUpper(strings.TrimSpace(reference))
	if ref == "" {
		return nil, ErrBookingNotFound
	}

	booking, err := s.deps.Bookings.FindByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, storeError("get booking", err)
	}
	return booking, nil
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or
// runs out of attempts.
func (s *bookingService) withRetry(ctx context.Context, op string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt >= s.cfg.MaxAttempts {
			log.Printf("[BookingService] %s: giving up after %d attempt(s): %v", op, attempt, err)
			return ErrBookingConflict
		}
		log.Printf("[BookingService] %s: attempt %d/%d failed: %v", op, attempt, s.cfg.MaxAttempts, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.RetryBackoff * time.Duration(attempt)):
		}
	}
}

// afterCommit drops the cached experience detail and publishes the booking
// event. Failures are logged only.
func (s *bookingService) afterCommit(ctx context.Context, routingKey string, b *models.Booking) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterCommitTimeout)
	defer cancel()

	if s.deps.Catalog != nil {
		s.deps.Catalog.InvalidateExperience(ctx, b.ExperienceID)
	}
	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.Publish(ctx, routingKey, dto.NewBookingEvent(b, s.now())); err != nil {
			log.Printf("[BookingService] publish %s for %s: %v", routingKey, b.ReferenceID, err)
		}
	}
}

func isRetryable(err error) bool {
	return errors.Is(err, ErrTransientConflict) ||
		errors.Is(err, gorm.ErrDuplicatedKey) ||
		database.IsRetryable(err)
}

var domainErrors = []error{
	ErrScheduleNotFound,
	ErrExperienceNotFound,
	ErrBookingNotFound,
	ErrInsufficientCapacity,
	ErrAlreadyCancelled,
	ErrNotCancellable,
	ErrBookingConflict,
	promo.ErrInvalidCode,
	validation.ErrValidation,
}

// classify passes domain errors through untouched and tags the rest.
func classify(op string, err error) error {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return storeError(op, err)
}
