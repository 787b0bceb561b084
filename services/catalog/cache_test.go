package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshotFetchesOncePerTTL(t *testing.T) {
	src := &staticSource{items: menuItems()}
	c := NewCache(src, time.Hour, zap.NewNop())
	ctx := context.Background()

	first := c.Snapshot(ctx)
	second := c.Snapshot(ctx)

	assert.Equal(t, 1, src.calls)
	assert.Same(t, first, second, "a fresh snapshot is reused, not rebuilt")
	assert.Len(t, first.Items, len(menuItems()))
}

func TestSnapshotRefreshesAfterTTL(t *testing.T) {
	src := &staticSource{items: menuItems()}
	c := NewCache(src, time.Hour, zap.NewNop())
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Snapshot(ctx)
	require.Equal(t, 1, src.calls)

	c.now = func() time.Time { return base.Add(time.Hour + time.Minute) }
	c.Snapshot(ctx)
	assert.Equal(t, 2, src.calls)
}

func TestSnapshotServesStaleWithinGraceWindow(t *testing.T) {
	src := &staticSource{items: menuItems()}
	c := NewCache(src, time.Hour, zap.NewNop())
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NotEmpty(t, c.Snapshot(ctx).Items)

	// The remote goes down; the snapshot goes stale but stays inside
	// the grace window.
	src.err = errors.New("upstream down")
	c.now = func() time.Time { return base.Add(time.Hour + 5*time.Minute) }
	snap := c.Snapshot(ctx)
	assert.Len(t, snap.Items, len(menuItems()), "stale snapshot is served while within grace")

	// Past the grace window the cache degrades to empty, never nil.
	c.now = func() time.Time { return base.Add(time.Hour + staleGrace + time.Minute) }
	snap = c.Snapshot(ctx)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Items)
}

func TestSnapshotNeverNilOnColdFailure(t *testing.T) {
	src := &staticSource{err: errors.New("upstream down")}
	c := NewCache(src, time.Hour, zap.NewNop())

	snap := c.Snapshot(context.Background())
	require.NotNil(t, snap)
	assert.Empty(t, snap.Items)
}

func TestRefreshIsUnconditional(t *testing.T) {
	src := &staticSource{items: menuItems()}
	c := NewCache(src, time.Hour, zap.NewNop())
	ctx := context.Background()

	_, err := c.Refresh(ctx)
	require.NoError(t, err)
	snap, err := c.Refresh(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
	assert.Len(t, snap.Items, len(menuItems()))
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	src := &staticSource{items: menuItems()}
	c := NewCache(src, time.Hour, zap.NewNop())
	ctx := context.Background()

	first, err := c.Refresh(ctx)
	require.NoError(t, err)

	src.err = errors.New("upstream down")
	_, err = c.Refresh(ctx)
	require.Error(t, err)

	assert.Same(t, first, c.Snapshot(ctx), "failed rebuild must not clobber the held snapshot")
}

func TestSnapshotByID(t *testing.T) {
	c := NewCache(&staticSource{items: menuItems()}, time.Hour, zap.NewNop())
	snap := c.Snapshot(context.Background())

	item, ok := snap.ByID("b1")
	require.True(t, ok)
	assert.Equal(t, "Veggie Burrito", item.Name)

	_, ok = snap.ByID("nope")
	assert.False(t, ok)
}
