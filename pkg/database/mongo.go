package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrMongoURIMissing = errors.New("MONGODB_URI is not configured")

// Mongo hands out a single client, connected on first use and reused afterwards.
// A failed connect is not remembered; the next caller tries again.
type Mongo struct {
	uri string

	mu     sync.Mutex
	client *mongo.Client
}

func NewMongo(uri string) *Mongo {
	return &Mongo{uri: uri}
}

func (m *Mongo) Client(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}
	if m.uri == "" {
		return nil, ErrMongoURIMissing
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	m.client = client
	return client, nil
}

// Disconnect closes the client if one was ever opened.
func (m *Mongo) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	return err
}
