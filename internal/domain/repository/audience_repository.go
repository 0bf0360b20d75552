package repository

import (
	"context"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
)

// AudienceRepository is the audience store.
type AudienceRepository interface {
	// List returns every audience record.
	List(ctx context.Context) ([]entity.Audience, error)

	// Upsert writes the record keyed by its id, last write wins.
	Upsert(ctx context.Context, record entity.Audience) error
}
