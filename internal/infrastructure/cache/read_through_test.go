package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type page struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

// MockTagCache is a testify mock of TagCache
type MockTagCache struct {
	mock.Mock
}

func (m *MockTagCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Bool(1), args.Error(2)
}

func (m *MockTagCache) TagVersions(ctx context.Context, tags ...string) (TagVersions, error) {
	args := m.Called(ctx, tags)
	versions, _ := args.Get(0).(TagVersions)
	return versions, args.Error(1)
}

func (m *MockTagCache) Set(ctx context.Context, key string, value []byte, versions TagVersions, ttl time.Duration) error {
	return m.Called(ctx, key, value, versions, ttl).Error(0)
}

func (m *MockTagCache) InvalidateTags(ctx context.Context, tags ...string) error {
	return m.Called(ctx, tags).Error(0)
}

func (m *MockTagCache) Close() error {
	return m.Called().Error(0)
}

func TestGetOrCompute_MissThenHit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTagCache(0)
	t.Cleanup(func() { _ = store.Close() })
	rt := NewReadThrough(store, time.Minute)

	calls := 0
	compute := func(context.Context) (page, error) {
		calls++
		return page{Items: []string{"a", "b"}, Total: 2}, nil
	}

	first, err := GetOrCompute(ctx, rt, "getAllProducts-1-5", []string{TagProducts}, compute)
	require.NoError(t, err)
	second, err := GetOrCompute(ctx, rt, "getAllProducts-1-5", []string{TagProducts}, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	rt.Invalidate(ctx, TagProducts)
	_, err = GetOrCompute(ctx, rt, "getAllProducts-1-5", []string{TagProducts}, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_ComputeErrorNotCached(t *testing.T) {
	ctx := context.Background()
	store := new(MockTagCache)
	store.On("Get", ctx, "k").Return(nil, false, nil)
	store.On("TagVersions", ctx, []string{TagClients}).Return(TagVersions{TagClients: 1}, nil)
	rt := NewReadThrough(store, time.Minute)
	boom := errors.New("db down")

	_, err := GetOrCompute(ctx, rt, "k", []string{TagClients}, func(context.Context) (page, error) {
		return page{}, boom
	})

	assert.ErrorIs(t, err, boom)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrCompute_BackendFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	store := new(MockTagCache)
	store.On("Get", ctx, "k").Return(nil, false, errors.New("redis timeout"))
	store.On("TagVersions", ctx, []string{TagClients}).Return(TagVersions{TagClients: 1}, nil)
	store.On("Set", ctx, "k", mock.Anything, TagVersions{TagClients: 1}, time.Minute).Return(errors.New("redis timeout"))
	rt := NewReadThrough(store, time.Minute)

	got, err := GetOrCompute(ctx, rt, "k", []string{TagClients}, func(context.Context) (page, error) {
		return page{Total: 3}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Total)
	store.AssertExpectations(t)
}

func TestGetOrCompute_UndecodableEntryRecomputed(t *testing.T) {
	ctx := context.Background()
	store := new(MockTagCache)
	store.On("Get", ctx, "k").Return([]byte("{not json"), true, nil)
	store.On("TagVersions", ctx, []string{TagProducts}).Return(TagVersions{TagProducts: 4}, nil)
	store.On("Set", ctx, "k", []byte(`{"items":null,"total":1}`), TagVersions{TagProducts: 4}, time.Minute).Return(nil)
	rt := NewReadThrough(store, time.Minute)

	got, err := GetOrCompute(ctx, rt, "k", []string{TagProducts}, func(context.Context) (page, error) {
		return page{Total: 1}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Total)
	store.AssertExpectations(t)
}

func TestGetOrCompute_UnknownVersionsSkipStore(t *testing.T) {
	ctx := context.Background()
	store := new(MockTagCache)
	store.On("Get", ctx, "k").Return(nil, false, nil)
	store.On("TagVersions", ctx, []string{TagCustomers}).Return(nil, errors.New("redis timeout"))
	rt := NewReadThrough(store, time.Minute)

	got, err := GetOrCompute(ctx, rt, "k", []string{TagCustomers}, func(context.Context) (page, error) {
		return page{Total: 2}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Total)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrCompute_InvalidationDuringComputeIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTagCache(0)
	t.Cleanup(func() { _ = store.Close() })
	rt := NewReadThrough(store, time.Hour)

	source := "v1"
	first, err := GetOrCompute(ctx, rt, "getAllProducts-1-5", []string{TagProducts}, func(context.Context) (string, error) {
		read := source
		// a write commits and invalidates while this result is in flight
		source = "v2"
		rt.Invalidate(ctx, TagProducts)
		return read, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", first)

	second, err := GetOrCompute(ctx, rt, "getAllProducts-1-5", []string{TagProducts}, func(context.Context) (string, error) {
		return source, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v2", second)
}

func TestReadThrough_InvalidateSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	store := new(MockTagCache)
	store.On("InvalidateTags", ctx, []string{TagClients, TagCustomers}).Return(errors.New("redis down"))
	rt := NewReadThrough(store, time.Minute)

	assert.NotPanics(t, func() { rt.Invalidate(ctx, TagClients, TagCustomers) })
	store.AssertExpectations(t)
}

type countingObserver struct {
	hits, misses int
	invalidated  [][]string
}

func (o *countingObserver) Hit(context.Context, string)  { o.hits++ }
func (o *countingObserver) Miss(context.Context, string) { o.misses++ }
func (o *countingObserver) Invalidated(_ context.Context, tags []string) {
	o.invalidated = append(o.invalidated, tags)
}

func TestReadThrough_Observer(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTagCache(0)
	t.Cleanup(func() { _ = store.Close() })
	obs := &countingObserver{}
	rt := NewReadThrough(store, time.Minute, WithObserver(obs))

	compute := func(context.Context) (page, error) { return page{Total: 1}, nil }
	for i := 0; i < 3; i++ {
		_, err := GetOrCompute(ctx, rt, "getAllClients-1-5", []string{TagClients}, compute)
		require.NoError(t, err)
	}
	rt.Invalidate(ctx, TagClients)

	assert.Equal(t, 1, obs.misses)
	assert.Equal(t, 2, obs.hits)
	assert.Equal(t, [][]string{{TagClients}}, obs.invalidated)
}

func TestReadThrough_FailedInvalidationIsNotObserved(t *testing.T) {
	ctx := context.Background()
	store := new(MockTagCache)
	store.On("InvalidateTags", ctx, []string{TagProducts}).Return(errors.New("redis down"))
	obs := &countingObserver{}

	NewReadThrough(store, time.Minute, WithObserver(obs)).Invalidate(ctx, TagProducts)

	assert.Empty(t, obs.invalidated)
	store.AssertExpectations(t)
}
