package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"github.com/siddardha003/BookIt-Experiences-Slots/pkg/cache"
	"gorm.io/gorm"
)

const (
	listCachePrefix   = "bookit:experiences:list:"
	detailCachePrefix = "bookit:experiences:detail:"

	listGenerationKey      = "bookit:experiences:gen:list"
	detailGenerationPrefix = "bookit:experiences:gen:detail:"
)

func ListCacheKey(gen int64, f repository.ExperienceFilter) string {
	v := url.Values{}
	v.Set("search", strings.ToLower(strings.TrimSpace(f.Search)))
	v.Set("category", strings.ToLower(strings.TrimSpace(f.Category)))
	v.Set("location", strings.ToLower(strings.TrimSpace(f.Location)))
	return fmt.Sprintf("%sv%d:%s", listCachePrefix, gen, v.Encode())
}

func DetailCacheKey(id uuid.UUID, gen int64) string {
	return fmt.Sprintf("%s%s:v%d", detailCachePrefix, id, gen)
}

func detailGenerationKey(id uuid.UUID) string {
	return detailGenerationPrefix + id.String()
}

type CatalogService interface {
	ListExperiences(ctx context.Context, filter repository.ExperienceFilter) ([]models.Experience, error)
	GetExperience(ctx context.Context, id string) (*models.Experience, error)
	InvalidateExperience(ctx context.Context, id uuid.UUID)
	InvalidateListings(ctx context.Context)
}

type catalogService struct {
	experiences repository.ExperienceRepository
	schedules   repository.ScheduleRepository
	cache       cache.Cache
	now         func() time.Time
}

func NewCatalogService(experiences repository.ExperienceRepository, schedules repository.ScheduleRepository, c cache.Cache) CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &catalogService{
		experiences: experiences,
		schedules:   schedules,
		cache:       c,
		now:         time.Now,
	}
}

func (s *catalogService) ListExperiences(ctx context.Context, filter repository.ExperienceFilter) ([]models.Experience, error) {
	gen, cacheable := s.generation(ctx, listGenerationKey)
	key := ListCacheKey(gen, filter)

	if cacheable {
		var cached []models.Experience
		if found, err := s.cache.Get(ctx, key, &cached); err != nil {
			log.Printf("[CatalogService] cache read %s: %v", key, err)
		} else if found {
			return cached, nil
		}
	}

	experiences, err := s.experiences.List(ctx, filter)
	if err != nil {
		return nil, storeError("list experiences", err)
	}
	if experiences == nil {
		experiences = []models.Experience{}
	}

	if cacheable {
		s.store(ctx, key, experiences)
	}
	return experiences, nil
}

// GetExperience returns the experience with its schedules from now on,
// ordered by date and time.
func (s *catalogService) GetExperience(ctx context.Context, rawID string) (*models.Experience, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, ErrInvalidID
	}
	gen, cacheable := s.generation(ctx, detailGenerationKey(id))
	key := DetailCacheKey(id, gen)

	if cacheable {
		var cached models.Experience
		if found, err := s.cache.Get(ctx, key, &cached); err != nil {
			log.Printf("[CatalogService] cache read %s: %v", key, err)
		} else if found {
			return &cached, nil
		}
	}

	experience, err := s.experiences.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, storeError("get experience", err)
	}

	schedules, err := s.schedules.FindUpcoming(ctx, id, s.now())
	if err != nil {
		return nil, storeError("list schedules", err)
	}
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	experience.Schedules = schedules

	if cacheable {
		s.store(ctx, key, experience)
	}
	return experience, nil
}

// InvalidateExperience moves the experience to a new detail generation. A
// reader that loaded the old state writes it under the old key, where
// nothing looks it up again.
func (s *catalogService) InvalidateExperience(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Bump(ctx, detailGenerationKey(id)); err != nil {
		log.Printf("[CatalogService] cache invalidate %s: %v", id, err)
	}
}

// InvalidateListings orphans every cached listing. Bookings do not call it:
// listings carry no capacity.
func (s *catalogService) InvalidateListings(ctx context.Context) {
	if err := s.cache.Bump(ctx, listGenerationKey); err != nil {
		log.Printf("[CatalogService] cache invalidate listings: %v", err)
	}
}

// generation reads the current generation for key. When it cannot be read
// the cache is skipped for this call.
func (s *catalogService) generation(ctx context.Context, key string) (int64, bool) {
	gen, err := s.cache.Generation(ctx, key)
	if err != nil {
		log.Printf("[CatalogService] cache generation %s: %v", key, err)
		return 0, false
	}
	return gen, true
}

func (s *catalogService) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Printf("[CatalogService] cache write %s: %v", key, err)
	}
}
