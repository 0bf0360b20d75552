package repository

import (
	"context"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
)

// KeyRepository is the access key store. There is deliberately no delete
// path; keys are issuance-only.
type KeyRepository interface {
	// Insert persists a new key. The store enforces key uniqueness.
	Insert(ctx context.Context, key entity.AccessKey) error

	// FindByToken resolves a bearer token, or entity.ErrKeyNotFound.
	FindByToken(ctx context.Context, token string) (*entity.AccessKey, error)

	// Exists reports whether the token is already taken.
	Exists(ctx context.Context, token string) (bool, error)
}
