package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clerky/website/pkg/database"
)

var ErrImageNotFound = errors.New("image not found")

type imageDocument struct {
	ID     primitive.ObjectID `bson:"_id"`
	Base64 string             `bson:"base64"`
}

type ImageRepository struct {
	mongo      *database.Mongo
	database   string
	collection string
}

func NewImageRepository(m *database.Mongo, databaseName, collection string) *ImageRepository {
	return &ImageRepository{
		mongo:      m,
		database:   databaseName,
		collection: collection,
	}
}

// GetImageBase64 returns the base64 field of the document with the given ObjectID hex.
func (r *ImageRepository) GetImageBase64(ctx context.Context, id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", fmt.Errorf("invalid image id %q: %w", id, err)
	}

	client, err := r.mongo.Client(ctx)
	if err != nil {
		return "", err
	}

	var doc imageDocument
	err = client.Database(r.database).Collection(r.collection).
		FindOne(ctx, bson.M{"_id": oid}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrImageNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load image %s: %w", id, err)
	}

	if doc.Base64 == "" {
		return "", ErrImageNotFound
	}
	return doc.Base64, nil
}
