package repository

import (
	"context"
	"fmt"

	"github.com/signupsvc/signup-service/internal/signup"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepo writes users into a MongoDB collection.
// No indexes are created: duplicate signups are stored as separate documents.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) InsertOne(ctx context.Context, u *signup.User) (string, error) {
	res, err := m.col.InsertOne(ctx, userDocument(u))
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return fmt.Sprint(id), nil
	}
}

// userDocument keeps the stored shape to exactly {name, age}.
func userDocument(u *signup.User) bson.D {
	return bson.D{{Key: "name", Value: u.Name}, {Key: "age", Value: u.Age}}
}
