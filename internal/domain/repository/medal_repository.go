package repository

import (
	"context"

	"github.com/sota-olympics/sota-service/internal/domain/entity"
)

// MedalRepository is the medal store. Rollup queries return nil (not an
// error) when nothing matches; empty is not an error on read paths.
type MedalRepository interface {
	// RollupByCountry aggregates one country's tallies into a nested
	// per-sport rollup.
	RollupByCountry(ctx context.Context, countryCode string) (*entity.CountryRollup, error)

	// RollupBySport aggregates all countries' tallies for one sport into a
	// nested per-country rollup.
	RollupBySport(ctx context.Context, sportID int64) (*entity.SportRollup, error)

	// RollupBySubSport aggregates the exact (sport, sub-sport) pair into a
	// per-country rollup with no further nesting.
	RollupBySubSport(ctx context.Context, sportID, typeID int64) (*entity.SubSportRollup, error)

	// MedalTable sums every country's tallies into a map keyed by country
	// code.
	MedalTable(ctx context.Context) (map[string]entity.MedalCount, error)

	// UpsertTally writes one participant's tally using the three-tier
	// cascade: update the matching nested entry in place, else append a new
	// entry to the country document, else create the country document.
	UpsertTally(ctx context.Context, countryCode, countryName string, tally entity.SportTally) error
}
