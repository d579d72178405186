package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/sdl-backend/internal/domain"
)

// fakeClient keeps cache entries in memory
type fakeClient struct {
	values  map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeClient) Get(ctx context.Context, key string) *redis.StringCmd {
	if c.getErr != nil {
		return redis.NewStringResult("", c.getErr)
	}
	val, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (c *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.setKeys = append(c.setKeys, key)
	if c.setErr != nil {
		return redis.NewStatusResult("", c.setErr)
	}
	c.values[key] = string(value.([]byte))
	c.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

// MockInstallmentPlanRepository is a mock implementation of InstallmentPlanRepository for testing
type MockInstallmentPlanRepository struct {
	mock.Mock
}

func (m *MockInstallmentPlanRepository) Create(ctx context.Context, plan *domain.InstallmentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockInstallmentPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InstallmentPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstallmentPlan), args.Error(1)
}

func (m *MockInstallmentPlanRepository) List(ctx context.Context, limit, offset int) ([]*domain.InstallmentPlan, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InstallmentPlan), args.Error(1)
}

func newTestPlan(t *testing.T) *domain.InstallmentPlan {
	t.Helper()

	planID := uuid.New()
	amounts := []string{"33.34", "33.33", "33.33"}
	plan := &domain.InstallmentPlan{
		ID:           planID,
		Description:  "Laptop",
		Total:        domain.MustNumber(100, 2),
		Installments: len(amounts),
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	dueDates := domain.DueDates(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), len(amounts))
	for i, amount := range amounts {
		plan.Entries = append(plan.Entries, domain.InstallmentEntry{
			ID:       uuid.New(),
			PlanID:   planID,
			Sequence: i + 1,
			Amount:   domain.MustNumber(amount, 2),
			DueDate:  dueDates[i],
		})
	}
	require.NoError(t, plan.Validate())
	return plan
}

func TestEncodeDecodePlan_KeepsScaleAndEntries(t *testing.T) {
	plan := newTestPlan(t)

	data, err := encodePlan(plan)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total":"100.00"`)

	decoded, err := decodePlan(data)
	require.NoError(t, err)

	assert.Equal(t, plan.ID, decoded.ID)
	assert.Equal(t, plan.Description, decoded.Description)
	assert.Equal(t, "100.00", decoded.Total.String())
	assert.Equal(t, int32(2), decoded.Total.Scale())
	assert.True(t, plan.CreatedAt.Equal(decoded.CreatedAt))
	require.Len(t, decoded.Entries, 3)
	for i, entry := range decoded.Entries {
		assert.Equal(t, plan.Entries[i].ID, entry.ID)
		assert.Equal(t, plan.ID, entry.PlanID)
		assert.Equal(t, plan.Entries[i].Amount.String(), entry.Amount.String())
		assert.True(t, plan.Entries[i].DueDate.Equal(entry.DueDate))
	}
	assert.Equal(t, "2026-04-30", decoded.Entries[1].DueDate.Format("2006-01-02"))
}

func TestDecodePlan_RejectsInconsistentPlan(t *testing.T) {
	plan := newTestPlan(t)
	plan.Entries[0].Amount = domain.MustNumber("33.30", 2)

	data, err := encodePlan(plan)
	require.NoError(t, err)

	_, err = decodePlan(data)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must equal plan total")
}

func TestCachedRepository_CreatePrimesCache(t *testing.T) {
	ctx := context.Background()
	plan := newTestPlan(t)
	client := newFakeClient()
	mockRepo := new(MockInstallmentPlanRepository)
	mockRepo.On("Create", ctx, plan).Return(nil)

	repo := NewCachedInstallmentPlanRepository(mockRepo, client, time.Minute)

	require.NoError(t, repo.Create(ctx, plan))
	assert.Contains(t, client.values, planKey(plan.ID))
	assert.Equal(t, time.Minute, client.ttls[planKey(plan.ID)])

	// Served from the cache without hitting the repository again
	cached, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "33.34", cached.Entries[0].Amount.String())
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCachedRepository_CreateFailureSkipsCache(t *testing.T) {
	ctx := context.Background()
	plan := newTestPlan(t)
	client := newFakeClient()
	mockRepo := new(MockInstallmentPlanRepository)
	mockRepo.On("Create", ctx, plan).Return(errors.New("failed to insert installment plan"))

	repo := NewCachedInstallmentPlanRepository(mockRepo, client, time.Minute)

	assert.Error(t, repo.Create(ctx, plan))
	assert.Empty(t, client.setKeys)
}

func TestCachedRepository_MissReadsThrough(t *testing.T) {
	ctx := context.Background()
	plan := newTestPlan(t)
	client := newFakeClient()
	mockRepo := new(MockInstallmentPlanRepository)
	mockRepo.On("GetByID", ctx, plan.ID).Return(plan, nil).Once()

	repo := NewCachedInstallmentPlanRepository(mockRepo, client, time.Minute)

	first, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Same(t, plan, first)

	second, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, second.ID)

	mockRepo.AssertExpectations(t)
}

func TestCachedRepository_RedisErrorsFallBack(t *testing.T) {
	ctx := context.Background()
	plan := newTestPlan(t)
	client := newFakeClient()
	client.getErr = errors.New("connection refused")
	client.setErr = errors.New("connection refused")
	mockRepo := new(MockInstallmentPlanRepository)
	mockRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)

	repo := NewCachedInstallmentPlanRepository(mockRepo, client, time.Minute)

	got, err := repo.GetByID(ctx, plan.ID)

	require.NoError(t, err)
	assert.Same(t, plan, got)
	mockRepo.AssertExpectations(t)
}

func TestCachedRepository_CorruptEntryFallsBack(t *testing.T) {
	ctx := context.Background()
	plan := newTestPlan(t)
	client := newFakeClient()
	client.values[planKey(plan.ID)] = "{not json"
	mockRepo := new(MockInstallmentPlanRepository)
	mockRepo.On("GetByID", ctx, plan.ID).Return(plan, nil)

	repo := NewCachedInstallmentPlanRepository(mockRepo, client, time.Minute)

	got, err := repo.GetByID(ctx, plan.ID)

	require.NoError(t, err)
	assert.Same(t, plan, got)
	assert.NotEqual(t, "{not json", client.values[planKey(plan.ID)])
}

func TestCachedRepository_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	client := newFakeClient()
	mockRepo := new(MockInstallmentPlanRepository)
	mockRepo.On("GetByID", ctx, id).Return(nil, errors.New("installment plan not found: "+id.String()))

	repo := NewCachedInstallmentPlanRepository(mockRepo, client, time.Minute)

	_, err := repo.GetByID(ctx, id)

	assert.Error(t, err)
	assert.Empty(t, client.setKeys)
}

func TestCachedRepository_ListPassesThrough(t *testing.T) {
	ctx := context.Background()
	plans := []*domain.InstallmentPlan{newTestPlan(t)}
	mockRepo := new(MockInstallmentPlanRepository)
	mockRepo.On("List", ctx, 20, 0).Return(plans, nil)

	repo := NewCachedInstallmentPlanRepository(mockRepo, newFakeClient(), time.Minute)

	got, err := repo.List(ctx, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, plans, got)
	mockRepo.AssertExpectations(t)
}
