//go:build integration

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresServices() (BookingService, CatalogService) {
	experiences := repository.NewExperienceRepository(testDB)
	schedules := repository.NewScheduleRepository(testDB)
	catalog := NewCatalogService(experiences, schedules, nil)
	bookings := NewBookingService(BookingDeps{
		Tx:          repository.NewTransactor(testDB),
		Experiences: experiences,
		Schedules:   schedules,
		Bookings:    repository.NewBookingRepository(testDB),
		Catalog:     catalog,
	}, BookingConfig{
		MaxAttempts:     3,
		RetryBackoff:    10 * time.Millisecond,
		TaxPercent:      18,
		ReferencePrefix: "HUF",
	})
	return bookings, catalog
}

func createExperience(t *testing.T, name, location string, price int64) *models.Experience {
	t.Helper()
	e := &models.Experience{
		Name:             name,
		ShortDescription: "Curated small-group experience.",
		Location:         location,
		Category:         "Water Sports",
		Price:            price,
	}
	require.NoError(t, testDB.Create(e).Error)
	return e
}

func createSchedule(t *testing.T, experience *models.Experience, available, total int) *models.Schedule {
	t.Helper()
	s := &models.Schedule{
		ExperienceID:   experience.ID,
		Date:           time.Now().Add(24 * time.Hour),
		Time:           "09:00",
		SlotsAvailable: available,
		TotalSlots:     total,
	}
	require.NoError(t, testDB.Create(s).Error)
	return s
}

func bookingInput(e *models.Experience, s *models.Schedule, qty int) CreateBookingInput {
	return CreateBookingInput{
		ExperienceID: e.ID.String(),
		ScheduleID:   s.ID.String(),
		FullName:     "Asha Rao",
		Email:        "asha@example.com",
		Quantity:     qty,
	}
}

func reloadSchedule(t *testing.T, id any) models.Schedule {
	t.Helper()
	var s models.Schedule
	require.NoError(t, testDB.First(&s, "id = ?", id).Error)
	return s
}

// Two concurrent bookings for the last slot: exactly one wins.
func TestIntegration_OversellRace(t *testing.T) {
	cleanTables()
	svc, _ := newPostgresServices()
	exp := createExperience(t, "Kayaking", "Udupi", 999)
	sched := createSchedule(t, exp, 1, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), bookingInput(exp, sched, 1))
		}(i)
	}
	wg.Wait()

	var ok, refused int
	for _, err := range errs {
		var capErr *InsufficientCapacityError
		switch {
		case err == nil:
			ok++
		case errors.As(err, &capErr):
			refused++
			assert.Equal(t, 0, capErr.Remaining)
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, refused)
	assert.Equal(t, 0, reloadSchedule(t, sched.ID).SlotsAvailable)
}

// Many concurrent bookings never take more than the schedule holds.
func TestIntegration_ConcurrentBookingsNeverOversell(t *testing.T) {
	cleanTables()
	svc, _ := newPostgresServices()
	exp := createExperience(t, "Coffee Trail", "Coorg", 1299)
	sched := createSchedule(t, exp, 20, 20)

	quantities := []int{3, 1, 4, 1, 5, 2, 6, 2, 3, 1, 4, 2, 2, 1, 3}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		booked int
	)
	for _, q := range quantities {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			b, err := svc.CreateBooking(context.Background(), bookingInput(exp, sched, q))
			if err != nil {
				assert.ErrorIs(t, err, ErrInsufficientCapacity)
				return
			}
			mu.Lock()
			booked += b.Quantity
			mu.Unlock()
		}(q)
	}
	wg.Wait()

	var stored int64
	require.NoError(t, testDB.Model(&models.Booking{}).
		Where("schedule_id = ? AND status <> ?", sched.ID, models.StatusCancelled).
		Select("COALESCE(SUM(quantity), 0)").Scan(&stored).Error)

	s := reloadSchedule(t, sched.ID)
	assert.LessOrEqual(t, booked, 20)
	assert.Equal(t, int64(booked), stored)
	assert.Equal(t, 20-booked, s.SlotsAvailable)

	var refs int64
	require.NoError(t, testDB.Model(&models.Booking{}).Distinct("reference_id").Count(&refs).Error)
	var rows int64
	require.NoError(t, testDB.Model(&models.Booking{}).Count(&rows).Error)
	assert.Equal(t, rows, refs)
}

func TestIntegration_ExactDepletionAndCancel(t *testing.T) {
	cleanTables()
	svc, _ := newPostgresServices()
	exp := createExperience(t, "Boat Cruise", "Sunderban", 999)
	sched := createSchedule(t, exp, 3, 3)

	b, err := svc.CreateBooking(context.Background(), bookingInput(exp, sched, 3))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), bookingInput(exp, sched, 1))
	var capErr *InsufficientCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 0, capErr.Remaining)

	_, err = svc.CancelBooking(context.Background(), b.ReferenceID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloadSchedule(t, sched.ID).SlotsAvailable)
}

func TestIntegration_SearchFilter(t *testing.T) {
	cleanTables()
	_, catalog := newPostgresServices()
	createExperience(t, "Kayaking", "Udupi", 999)
	createExperience(t, "Nandi Hills Sunrise", "Bangalore", 899)
	createExperience(t, "Kayaking", "Udupi, Karnataka", 999)

	got, err := catalog.ListExperiences(context.Background(), repository.ExperienceFilter{Search: "kayak"})

	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, "Kayaking", e.Name)
	}

	got, err = catalog.ListExperiences(context.Background(), repository.ExperienceFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
