package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/dto"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/repository"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/validation"
	"gorm.io/gorm"
)

const (
	RoutingExperienceUpserted = "catalog.experience.upserted"
	RoutingScheduleUpserted   = "catalog.schedule.upserted"

	handleTimeout = 10 * time.Second
)

// errBadMessage marks deliveries that will never succeed and must not be requeued.
var errBadMessage = errors.New("bad catalog message")

type CacheInvalidator interface {
	InvalidateExperience(ctx context.Context, id uuid.UUID)
	InvalidateListings(ctx context.Context)
}

// CatalogConsumer applies catalog.* messages to the experiences and
// schedules tables.
type CatalogConsumer struct {
	experiences repository.ExperienceRepository
	schedules   repository.ScheduleRepository
	cache       CacheInvalidator
	validator   *validation.Validator
}

func NewCatalogConsumer(experiences repository.ExperienceRepository, schedules repository.ScheduleRepository, cache CacheInvalidator) *CatalogConsumer {
	return &CatalogConsumer{
		experiences: experiences,
		schedules:   schedules,
		cache:       cache,
		validator:   validation.New(),
	}
}

// Start listens for messages until the channel closes.
func (cc *CatalogConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			cc.handleMessage(msg)
		}
		log.Println("[CatalogConsumer] channel closed, stopping consumer")
	}()
}

func (cc *CatalogConsumer) handleMessage(msg amqp.Delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	var err error
	switch msg.RoutingKey {
	case RoutingExperienceUpserted:
		err = cc.upsertExperience(ctx, msg.Body)
	case RoutingScheduleUpserted:
		err = cc.upsertSchedule(ctx, msg.Body)
	default:
		err = fmt.Errorf("%w: unknown routing key %q", errBadMessage, msg.RoutingKey)
	}

	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, errBadMessage):
		log.Printf("[CatalogConsumer] dropping message: %v", err)
		_ = msg.Nack(false, false)
	default:
		log.Printf("[CatalogConsumer] %s failed, requeueing: %v", msg.RoutingKey, err)
		_ = msg.Nack(false, true)
	}
}

func (cc *CatalogConsumer) upsertExperience(ctx context.Context, body []byte) error {
	var m dto.ExperienceMessage
	if err := cc.decode(body, &m); err != nil {
		return err
	}
	experience, err := m.ToModel()
	if err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}

	if err := cc.experiences.Upsert(ctx, experience); err != nil {
		return storeFailure("upsert experience "+experience.ID.String(), err)
	}
	cc.invalidate(ctx, experience.ID)
	if cc.cache != nil {
		cc.cache.InvalidateListings(ctx)
	}

	log.Printf("[CatalogConsumer] synced experience %s: %s", experience.ID, experience.Name)
	return nil
}

func (cc *CatalogConsumer) upsertSchedule(ctx context.Context, body []byte) error {
	var m dto.ScheduleMessage
	if err := cc.decode(body, &m); err != nil {
		return err
	}
	schedule, err := m.ToModel()
	if err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}

	if err := cc.schedules.Upsert(ctx, schedule); err != nil {
		return storeFailure("upsert schedule "+schedule.ID.String(), err)
	}
	cc.invalidate(ctx, schedule.ExperienceID)

	log.Printf("[CatalogConsumer] synced schedule %s (%s %s)", schedule.ID, schedule.Date.Format("2006-01-02"), schedule.Time)
	return nil
}

// storeFailure marks constraint violations as bad messages: the same row
// will be rejected on every redelivery.
func storeFailure(op string, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return fmt.Errorf("%w: %s: %v", errBadMessage, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (cc *CatalogConsumer) decode(body []byte, dst any) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}
	if err := cc.validator.Validate(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}
	return nil
}

func (cc *CatalogConsumer) invalidate(ctx context.Context, id uuid.UUID) {
	if cc.cache != nil {
		cc.cache.InvalidateExperience(ctx, id)
	}
}
