package badger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/weisyn/custody/pkg/types"
)

func TestNewDefaults(t *testing.T) {
	cfg := New(nil)
	assert.True(t, filepath.IsAbs(cfg.GetPath()))
	assert.Equal(t, "badger", filepath.Base(cfg.GetPath()))
	assert.True(t, cfg.IsSyncWritesEnabled())
	assert.Equal(t, 2*time.Hour, cfg.GetGCInterval())
	assert.Equal(t, 0.5, cfg.GetGCDiscardRatio())
}

func TestNewUserStorageConfig(t *testing.T) {
	root := t.TempDir()
	cfg := New(&types.UserStorageConfig{
		DataRoot:   types.StringPtr(root),
		SyncWrites: types.BoolPtr(false),
	})
	assert.Equal(t, filepath.Join(root, "badger"), cfg.GetPath())
	assert.False(t, cfg.IsSyncWritesEnabled())
}

func TestGCDiscardRatioBounds(t *testing.T) {
	for _, r := range []float64{0, -1, 1, 2} {
		assert.Equal(t, defaultGCDiscardRatio, NewFromOptions(&BadgerOptions{GCDiscardRatio: r}).GetGCDiscardRatio())
	}
	assert.Equal(t, 0.7, NewFromOptions(&BadgerOptions{GCDiscardRatio: 0.7}).GetGCDiscardRatio())
}
