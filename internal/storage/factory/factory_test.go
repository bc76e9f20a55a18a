package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldenluthfi/situs-backend/internal/storage"
	"github.com/aldenluthfi/situs-backend/internal/storage/in_mem"
)

func TestNewStore_InMem(t *testing.T) {
	s, hc, err := NewStore(context.Background(), StorageConfig{Type: storage.InMem})
	require.NoError(t, err)
	assert.IsType(t, &in_mem.InMemStore{}, s)
	assert.True(t, hc.Healthy(context.Background()))
}

func TestNewStore_Errors(t *testing.T) {
	_, _, err := NewStore(context.Background(), StorageConfig{Type: storage.PG})
	assert.Error(t, err)

	_, _, err = NewStore(context.Background(), StorageConfig{Type: "mysql"})
	assert.EqualError(t, err, "unsupported store type: mysql")
}
