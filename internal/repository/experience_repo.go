package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExperienceFilter narrows a catalog listing. Every field is a
// case-insensitive substring match; empty fields are ignored.
type ExperienceFilter struct {
	Search   string
	Category string
	Location string
}

type ExperienceRepository interface {
	List(ctx context.Context, filter ExperienceFilter) ([]models.Experience, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Experience, error)
	Upsert(ctx context.Context, experience *models.Experience) error
}

type experienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) ExperienceRepository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) List(ctx context.Context, filter ExperienceFilter) ([]models.Experience, error) {
	var experiences []models.Experience

	q := r.db.WithContext(ctx).Model(&models.Experience{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := likePattern(s)
		q = q.Where(
			"(name ILIKE ? OR description ILIKE ? OR short_description ILIKE ? OR location ILIKE ? OR category ILIKE ?)",
			p, p, p, p, p,
		)
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("category ILIKE ?", likePattern(c))
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		q = q.Where("location ILIKE ?", likePattern(l))
	}

	if err := q.Order("created_at ASC, id ASC").Find(&experiences).Error; err != nil {
		return nil, err
	}
	return experiences, nil
}

func (r *experienceRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	return r.FindByIDTx(ctx, r.db, id)
}

func (r *experienceRepository) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Experience, error) {
	var experience models.Experience
	if err := tx.WithContext(ctx).First(&experience, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &experience, nil
}

// Upsert inserts the experience or overwrites its descriptive columns.
func (r *experienceRepository) Upsert(ctx context.Context, experience *models.Experience) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "short_description", "location",
			"category", "price", "image_url", "min_age", "updated_at",
		}),
	}).Create(experience).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s in % after escaping LIKE metacharacters.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
