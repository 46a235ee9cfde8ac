package service

import (
	"errors"
	"fmt"

	"github.com/siddardha003/BookIt-Experiences-Slots/pkg/database"
)

var (
	ErrInvalidID          = errors.New("invalid id")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrBookingNotFound    = errors.New("booking not found")

	ErrInsufficientCapacity = errors.New("not enough slots available")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
	ErrNotCancellable       = errors.New("booking can no longer be cancelled")

	ErrStoreUnavailable = errors.New("database not available, please try again later")

	// ErrTransientConflict marks a booking attempt that lost a race and may
	// succeed on a fresh transaction. It does not leave the service.
	ErrTransientConflict = errors.New("transient booking conflict")
	ErrBookingConflict   = errors.New("booking could not be completed, please retry")
)

// InsufficientCapacityError reports how many slots were left when the
// booking was refused.
type InsufficientCapacityError struct {
	Requested int
	Remaining int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("only %d slots available", e.Remaining)
}

func (e *InsufficientCapacityError) Is(target error) bool {
	return target == ErrInsufficientCapacity
}

// storeError tags connectivity failures with ErrStoreUnavailable and leaves
// everything else as it is.
func storeError(op string, err error) error {
	if database.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
