package repository

import (
	"context"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
)

// SportRepository is the read-only sport/sub-sport reference catalog.
type SportRepository interface {
	// ListSportNames returns sport_id (stringified) to sport_name.
	ListSportNames(ctx context.Context) (map[string]string, error)

	// AllSportDetails returns every sport with its sub-sport list joined in.
	AllSportDetails(ctx context.Context) ([]entity.SportDetail, error)

	// SportDetailByID returns one sport with its sub-sport list, or nil if
	// the sport is unknown.
	SportDetailByID(ctx context.Context, sportID int64) (*entity.SportDetail, error)

	// SubSport returns the catalog entry for the pair, or
	// entity.ErrSubSportNotFound.
	SubSport(ctx context.Context, sportID, typeID int64) (*entity.SubSportType, error)

	// SportExists reports whether a sport id is in the catalog.
	SportExists(ctx context.Context, sportID int64) (bool, error)
}
