package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/service"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error)
	cancelFn func(ctx context.Context, reference string) (*models.Booking, error)
	getFn    func(ctx context.Context, reference string) (*models.Booking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, in)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, reference string) (*models.Booking, error) {
	return m.cancelFn(ctx, reference)
}
func (m *mockBookingService) GetBooking(ctx context.Context, reference string) (*models.Booking, error) {
	return m.getFn(ctx, reference)
}

// --- Mock CatalogService ---

type mockCatalogService struct {
	listFn func(ctx context.Context, filter repository.ExperienceFilter) ([]models.Experience, error)
	getFn  func(ctx context.Context, id string) (*models.Experience, error)
}

func (m *mockCatalogService) ListExperiences(ctx context.Context, filter repository.ExperienceFilter) ([]models.Experience, error) {
	return m.listFn(ctx, filter)
}
func (m *mockCatalogService) GetExperience(ctx context.Context, id string) (*models.Experience, error) {
	return m.getFn(ctx, id)
}
func (m *mockCatalogService) InvalidateExperience(ctx context.Context, id uuid.UUID) {}
func (m *mockCatalogService) InvalidateListings(ctx context.Context)                 {}
