package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoClientMissingURI(t *testing.T) {
	m := NewMongo("")
	_, err := m.Client(context.Background())
	assert.ErrorIs(t, err, ErrMongoURIMissing)
}

func TestMongoClientInvalidURI(t *testing.T) {
	m := NewMongo("not-a-mongo-uri")
	_, err := m.Client(context.Background())
	require.Error(t, err)
	assert.Nil(t, m.client)
}

func TestMongoClientReused(t *testing.T) {
	// Connect does not dial; the driver connects lazily on first operation.
	m := NewMongo("mongodb://127.0.0.1:1")
	first, err := m.Client(context.Background())
	require.NoError(t, err)
	second, err := m.Client(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, m.Disconnect(context.Background()))
	assert.NoError(t, m.Disconnect(context.Background()))
}
