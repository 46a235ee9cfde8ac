package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"gorm.io/gorm"
)

// --- In-memory store ---
//
// memStore serializes whole transactions behind one mutex, which gives the
// same outcome as the schedule row lock for a single schedule. A failing
// transaction restores the snapshot taken when it began.

type memStore struct {
	mu          sync.Mutex
	experiences map[uuid.UUID]models.Experience
	schedules   map[uuid.UUID]models.Schedule
	bookings    map[uuid.UUID]models.Booking

	// fault injection, consulted inside transactions
	missDecrements int
	lockErr        error
	decrementErr   error
	listErr        error
	txCount        int
}

func newMemStore() *memStore {
	return &memStore{
		experiences: map[uuid.UUID]models.Experience{},
		schedules:   map[uuid.UUID]models.Schedule{},
		bookings:    map[uuid.UUID]models.Booking{},
	}
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCount++

	if err := ctx.Err(); err != nil {
		return err
	}

	schedules := cloneMap(m.schedules)
	bookings := cloneMap(m.bookings)

	if err := fn(nil); err != nil {
		m.schedules = schedules
		m.bookings = bookings
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memStore) addExperience(name, location string, price int64) models.Experience {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := models.Experience{
		ID:               uuid.New(),
		Name:             name,
		ShortDescription: name,
		Location:         location,
		Price:            price,
		CreatedAt:        time.Now(),
	}
	m.experiences[e.ID] = e
	return e
}

func (m *memStore) addSchedule(experienceID uuid.UUID, date time.Time, available, total int) models.Schedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := models.Schedule{
		ID:             uuid.New(),
		ExperienceID:   experienceID,
		Date:           date,
		Time:           "09:00",
		SlotsAvailable: available,
		TotalSlots:     total,
	}
	m.schedules[s.ID] = s
	return s
}

func (m *memStore) slots(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedules[id].SlotsAvailable
}

func (m *memStore) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

func (m *memStore) bookedQuantity(scheduleID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, b := range m.bookings {
		if b.ScheduleID == scheduleID && b.Active() {
			total += b.Quantity
		}
	}
	return total
}

// --- ExperienceRepository ---

type memExperiences struct{ *memStore }

func (r memExperiences) List(ctx context.Context, f repository.ExperienceFilter) ([]models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}

	contains := func(field, sub string) bool {
		return strings.Contains(strings.ToLower(field), strings.ToLower(strings.TrimSpace(sub)))
	}
	var out []models.Experience
	for _, e := range r.experiences {
		if f.Search != "" && !(contains(e.Name, f.Search) || contains(e.Description, f.Search) ||
			contains(e.ShortDescription, f.Search) || contains(e.Location, f.Search) || contains(e.Category, f.Search)) {
			continue
		}
		if f.Category != "" && !contains(e.Category, f.Category) {
			continue
		}
		if f.Location != "" && !contains(e.Location, f.Location) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r memExperiences) FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(id)
}

func (r memExperiences) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Experience, error) {
	return r.find(id)
}

func (r memExperiences) find(id uuid.UUID) (*models.Experience, error) {
	e, ok := r.experiences[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r memExperiences) Upsert(ctx context.Context, e *models.Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.experiences[e.ID] = *e
	return nil
}

// --- ScheduleRepository ---

type memSchedules struct{ *memStore }

func (r memSchedules) FindUpcoming(ctx context.Context, experienceID uuid.UUID, from time.Time) ([]models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Schedule
	for _, s := range r.schedules {
		if s.ExperienceID == experienceID && !s.Date.Before(from) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r memSchedules) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Schedule, error) {
	if r.lockErr != nil {
		return nil, r.lockErr
	}
	s, ok := r.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r memSchedules) DecrementSlots(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error {
	if r.decrementErr != nil {
		return r.decrementErr
	}
	if r.missDecrements > 0 {
		r.missDecrements--
		return repository.ErrNotUpdated
	}
	s, ok := r.schedules[id]
	if !ok || s.SlotsAvailable < quantity {
		return repository.ErrNotUpdated
	}
	s.SlotsAvailable -= quantity
	r.schedules[id] = s
	return nil
}

func (r memSchedules) IncrementSlots(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error {
	s, ok := r.schedules[id]
	if !ok || s.SlotsAvailable+quantity > s.TotalSlots {
		return repository.ErrNotUpdated
	}
	s.SlotsAvailable += quantity
	r.schedules[id] = s
	return nil
}

func (r memSchedules) Upsert(ctx context.Context, s *models.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.schedules[s.ID]; ok {
		cur.Date, cur.Time = s.Date, s.Time
		r.schedules[s.ID] = cur
		return nil
	}
	r.schedules[s.ID] = *s
	return nil
}

// --- BookingRepository ---

type memBookings struct{ *memStore }

func (r memBookings) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	for _, existing := range r.bookings {
		if existing.ReferenceID == b.ReferenceID {
			return gorm.ErrDuplicatedKey
		}
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	r.bookings[b.ID] = *b
	return nil
}

func (r memBookings) FindByReference(ctx context.Context, reference string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byReference(reference)
}

func (r memBookings) FindByReferenceForUpdate(ctx context.Context, tx *gorm.DB, reference string) (*models.Booking, error) {
	return r.byReference(reference)
}

func (r memBookings) byReference(reference string) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.ReferenceID == reference {
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memBookings) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, status models.BookingStatus) error {
	b, ok := r.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = status
	r.bookings[bookingID] = b
	return nil
}

// --- Collaborators ---

type mockPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *mockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}

func (p *mockPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type mockInvalidator struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (m *mockInvalidator) InvalidateExperience(ctx context.Context, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, id)
}

var errDiskFull = errors.New("could not extend file: disk full")
