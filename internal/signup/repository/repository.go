package repository

import (
	"context"

	"github.com/signupsvc/signup-service/internal/signup"
)

// Repository is the single write the signup flow needs from the document store.
type Repository interface {
	InsertOne(ctx context.Context, u *signup.User) (string, error)
}
