package spares

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/quotedesk/internal/catalog"
	"github.com/odyssey-erp/quotedesk/internal/shared"
)

// mockRepository mirrors the conditional UPDATE: the delta is applied under
// a lock only when the result stays non-negative.
type mockRepository struct {
	mu     sync.Mutex
	spares map[int64]Spare
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{spares: make(map[int64]Spare), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, filters catalog.ListFilters) ([]Spare, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Spare{}
	for _, s := range m.spares {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Spare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spares[id]
	if !ok {
		return Spare{}, fmt.Errorf("spare: %w", shared.ErrNotFound)
	}
	return s, nil
}

func (m *mockRepository) Create(ctx context.Context, s Spare) (Spare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = m.nextID
	m.nextID++
	m.spares[s.ID] = s
	return s, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, s Spare) (Spare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.spares[id]
	if !ok {
		return Spare{}, fmt.Errorf("spare: %w", shared.ErrNotFound)
	}
	cur.Name, cur.Price = s.Name, s.Price
	m.spares[id] = cur
	return cur, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.spares[id]; !ok {
		return fmt.Errorf("spare: %w", shared.ErrNotFound)
	}
	delete(m.spares, id)
	return nil
}

func (m *mockRepository) AdjustStock(ctx context.Context, id int64, delta int) (Spare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spares[id]
	if !ok {
		return Spare{}, fmt.Errorf("spare: %w", shared.ErrNotFound)
	}
	if s.Stock+delta < 0 {
		return Spare{}, ErrInsufficientStock
	}
	s.Stock += delta
	m.spares[id] = s
	return s, nil
}

type countingObserver struct {
	mu    sync.Mutex
	calls int
}

func (o *countingObserver) StockAdjusted(int) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()
}

var (
	admin = shared.Actor{ID: 1, Role: shared.RoleAdmin}
	staff = shared.Actor{ID: 2, Role: shared.RoleUser}
)

func seed(t *testing.T, svc *Service, stock int) Spare {
	t.Helper()
	s, err := svc.Create(context.Background(), admin, SpareRequest{Name: "Seal kit", Price: decimal.NewFromInt(120), Stock: stock})
	require.NoError(t, err)
	return s
}

func TestStockDeltasCommute(t *testing.T) {
	for _, order := range [][]int{{5, -3}, {-3, 5}} {
		svc := NewService(newMockRepository(), nil, nil)
		s := seed(t, svc, 10)
		for _, d := range order {
			_, err := svc.AdjustStock(context.Background(), admin, s.ID, AdjustStockRequest{Delta: d})
			require.NoError(t, err)
		}
		got, err := svc.Get(context.Background(), s.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, got.Stock, "order %v", order)
	}
}

func TestConcurrentAdjustmentsLoseNothing(t *testing.T) {
	obs := &countingObserver{}
	svc := NewService(newMockRepository(), nil, obs)
	s := seed(t, svc, 100)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.AdjustStock(context.Background(), admin, s.ID, AdjustStockRequest{Delta: 2})
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.AdjustStock(context.Background(), admin, s.ID, AdjustStockRequest{Delta: -1})
		}()
	}
	wg.Wait()

	got, err := svc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, got.Stock)
	assert.Equal(t, 100, obs.calls)
}

func TestAdjustStockNeverNegative(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	s := seed(t, svc, 2)

	_, err := svc.AdjustStock(context.Background(), admin, s.ID, AdjustStockRequest{Delta: -3})
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorIs(t, err, shared.ErrConflict)

	got, _ := svc.Get(context.Background(), s.ID)
	assert.Equal(t, 2, got.Stock)

	got, err = svc.AdjustStock(context.Background(), admin, s.ID, AdjustStockRequest{Delta: -2})
	require.NoError(t, err)
	assert.Zero(t, got.Stock)
}

func TestAdjustStockRequiresAdmin(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	s := seed(t, svc, 2)

	_, err := svc.AdjustStock(context.Background(), staff, s.ID, AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestAdjustStockRejectsZeroDelta(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	s := seed(t, svc, 2)
	_, err := svc.AdjustStock(context.Background(), admin, s.ID, AdjustStockRequest{})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestAdjustStockMissingSpare(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	_, err := svc.AdjustStock(context.Background(), admin, 404, AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateKeepsStock(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	s := seed(t, svc, 9)
	got, err := svc.Update(context.Background(), admin, s.ID, SpareRequest{Name: "Seal kit v2", Price: decimal.NewFromInt(130), Stock: 0})
	require.NoError(t, err)
	assert.Equal(t, 9, got.Stock)
	assert.Equal(t, "Seal kit v2", got.Name)
}

func TestCreateRejectsNegativeStock(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	_, err := svc.Create(context.Background(), admin, SpareRequest{Name: "x", Price: decimal.NewFromInt(1), Stock: -1})
	assert.ErrorIs(t, err, shared.ErrValidation)
}
