package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/simaogato/sdl-backend/internal/domain"
)

const planKeyPrefix = "sdl:plan:"

// Client is the subset of *redis.Client used by the plan cache
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// NewClient connects to Redis and checks the connection
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// cachedInstallmentPlanRepository is a read-through cache in front of another repository
// Plans are immutable once created, so entries only expire through the TTL
type cachedInstallmentPlanRepository struct {
	next   domain.InstallmentPlanRepository
	client Client
	ttl    time.Duration
}

// NewCachedInstallmentPlanRepository wraps next with a Redis cache for GetByID
func NewCachedInstallmentPlanRepository(next domain.InstallmentPlanRepository, client Client, ttl time.Duration) domain.InstallmentPlanRepository {
	return &cachedInstallmentPlanRepository{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

// Create stores the plan and primes the cache
func (r *cachedInstallmentPlanRepository) Create(ctx context.Context, plan *domain.InstallmentPlan) error {
	if err := r.next.Create(ctx, plan); err != nil {
		return err
	}

	r.store(ctx, plan)
	return nil
}

// GetByID serves the plan from Redis, falling back to the wrapped repository on a miss
func (r *cachedInstallmentPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InstallmentPlan, error) {
	val, err := r.client.Get(ctx, planKey(id)).Result()
	switch {
	case err == nil:
		plan, decodeErr := decodePlan([]byte(val))
		if decodeErr == nil {
			return plan, nil
		}
		log.Printf("Warning: discarding cached plan %s: %v", id, decodeErr)
	case err != redis.Nil:
		log.Printf("Warning: failed to read plan %s from Redis: %v", id, err)
	}

	plan, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, plan)
	return plan, nil
}

// List is not cached
func (r *cachedInstallmentPlanRepository) List(ctx context.Context, limit, offset int) ([]*domain.InstallmentPlan, error) {
	return r.next.List(ctx, limit, offset)
}

// store writes the plan to Redis; failures only degrade the cache
func (r *cachedInstallmentPlanRepository) store(ctx context.Context, plan *domain.InstallmentPlan) {
	data, err := encodePlan(plan)
	if err != nil {
		log.Printf("Warning: failed to encode plan %s: %v", plan.ID, err)
		return
	}

	if err := r.client.Set(ctx, planKey(plan.ID), data, r.ttl).Err(); err != nil {
		log.Printf("Warning: failed to save plan %s to Redis: %v", plan.ID, err)
	}
}

func planKey(id uuid.UUID) string {
	return planKeyPrefix + id.String()
}

type planRecord struct {
	ID           uuid.UUID     `json:"id"`
	Description  string        `json:"description"`
	Total        string        `json:"total"`
	Scale        int32         `json:"scale"`
	Installments int           `json:"installments"`
	CreatedAt    time.Time     `json:"created_at"`
	Entries      []entryRecord `json:"entries"`
}

type entryRecord struct {
	ID       uuid.UUID `json:"id"`
	Sequence int       `json:"sequence"`
	Amount   string    `json:"amount"`
	DueDate  time.Time `json:"due_date"`
}

// encodePlan serializes amounts as fixed-scale strings so no precision is lost
func encodePlan(plan *domain.InstallmentPlan) ([]byte, error) {
	record := planRecord{
		ID:           plan.ID,
		Description:  plan.Description,
		Total:        plan.Total.String(),
		Scale:        plan.Total.Scale(),
		Installments: plan.Installments,
		CreatedAt:    plan.CreatedAt,
		Entries:      make([]entryRecord, 0, len(plan.Entries)),
	}

	for _, entry := range plan.Entries {
		record.Entries = append(record.Entries, entryRecord{
			ID:       entry.ID,
			Sequence: entry.Sequence,
			Amount:   entry.Amount.String(),
			DueDate:  entry.DueDate,
		})
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}
	return data, nil
}

func decodePlan(data []byte) (*domain.InstallmentPlan, error) {
	var record planRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}

	total, err := domain.NewNumber(record.Total, record.Scale)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan total: %w", err)
	}

	plan := &domain.InstallmentPlan{
		ID:           record.ID,
		Description:  record.Description,
		Total:        total,
		Installments: record.Installments,
		CreatedAt:    record.CreatedAt,
		Entries:      make([]domain.InstallmentEntry, 0, len(record.Entries)),
	}

	for _, entry := range record.Entries {
		amount, err := domain.NewNumber(entry.Amount, record.Scale)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entry amount: %w", err)
		}
		plan.Entries = append(plan.Entries, domain.InstallmentEntry{
			ID:       entry.ID,
			PlanID:   record.ID,
			Sequence: entry.Sequence,
			Amount:   amount,
			DueDate:  entry.DueDate,
		})
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}
