package iterthreads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ivalmian/iterator-threads/settings"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, uint(0), cfg.Capacity)
	require.Equal(t, time.Duration(0), cfg.GetTimeout)
	require.Equal(t, time.Duration(0), cfg.PutTimeout)
	require.False(t, cfg.StartImmediately)
	require.NotNil(t, cfg.Metrics)
	require.Equal(t, time.Duration(0), cfg.joinTimeout())
}

func TestJoinTimeout_FallsBackToGetTimeout(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithGetTimeout(time.Second)(&cfg))
	require.Equal(t, time.Second, cfg.joinTimeout())

	require.NoError(t, WithJoinTimeout(0)(&cfg))
	require.Equal(t, time.Duration(0), cfg.joinTimeout())

	require.NoError(t, WithJoinTimeout(3*time.Second)(&cfg))
	require.Equal(t, 3*time.Second, cfg.joinTimeout())
}

func TestNew_InvalidOptions_ReturnsError(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative get timeout", WithGetTimeout(-time.Millisecond)},
		{"negative put timeout", WithPutTimeout(-time.Millisecond)},
		{"negative join timeout", WithJoinTimeout(-time.Millisecond)},
		{"nil metrics provider", WithMetrics(nil)},
		{"invalid settings", WithSettings(settings.Settings{GetTimeout: -time.Second})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			it, err := New(FromSlice(ints(1)), tc.opt)
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Nil(t, it)
		})
	}
}

func TestNew_ValidOptions_Succeeds(t *testing.T) {
	it, err := New(
		FromSlice(ints(3)),
		WithCapacity(2),
		WithGetTimeout(time.Second),
		WithPutTimeout(time.Second),
		WithJoinTimeout(time.Second),
		WithName("valid"),
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, "valid", it.Name())
	require.Equal(t, NotStarted, it.State())

	got, err := collectAll(it)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, got)
}

func TestWithSettings(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, WithName("keep")(&cfg))
	require.NoError(t, WithSettings(settings.Settings{
		Capacity:   8,
		GetTimeout: time.Second,
		PutTimeout: 2 * time.Second,
	})(&cfg))

	require.Equal(t, "keep", cfg.Name)
	require.Equal(t, uint(8), cfg.Capacity)
	require.Equal(t, 2*time.Second, cfg.PutTimeout)
	require.Equal(t, time.Second, cfg.joinTimeout())

	require.NoError(t, WithSettings(settings.Settings{Name: "loaded", JoinTimeout: 5 * time.Second})(&cfg))
	require.Equal(t, "loaded", cfg.Name)
	require.Equal(t, 5*time.Second, cfg.joinTimeout())
}

func collectAll[T any](it *Iterator[T]) ([]T, error) {
	var out []T
	err := it.Run(context.Background(), func(it *Iterator[T]) error {
		for v, err := range it.All() {
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}
