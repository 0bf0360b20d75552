package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/biter777/countries"

	"github.com/sota-olympics/sota-service/internal/application/dto"
	"github.com/sota-olympics/sota-service/internal/domain/entity"
	"github.com/sota-olympics/sota-service/internal/domain/repository"
	apperrors "github.com/sota-olympics/sota-service/internal/pkg/errors"
)

// Validator checks write payloads against the ISO country registry and the
// sport catalog before anything touches the store.
type Validator struct {
	sportRepo repository.SportRepository
}

// NewValidator creates a validator backed by the sport catalog.
func NewValidator(sportRepo repository.SportRepository) *Validator {
	return &Validator{sportRepo: sportRepo}
}

// CountryName resolves an ISO 3166-1 alpha-2 code to its display name, or
// returns an invalid-input error naming the offending value.
func (v *Validator) CountryName(code string) (string, error) {
	upper := strings.ToUpper(code)
	if len(upper) != 2 || isUserAssigned(upper) {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "invalid country code").
			WithField("country", fmt.Sprintf("%s is not an ISO 3166-1 alpha-2 code", code))
	}
	cc := countries.ByName(upper)
	if cc == countries.Unknown {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "invalid country code").
			WithField("country", fmt.Sprintf("%s is not an ISO 3166-1 alpha-2 code", code))
	}
	return cc.String(), nil
}

// isUserAssigned reports whether an alpha-2 code sits in the ranges ISO
// 3166-1 reserves for user assignment (AA, QM to QZ, XA to XZ, ZZ). The
// registry resolves some of them, Kosovo's XK for instance, but they are
// not official codes.
func isUserAssigned(code string) bool {
	switch {
	case code == "AA" || code == "ZZ":
		return true
	case code[0] == 'Q' && code[1] >= 'M' && code[1] <= 'Z':
		return true
	case code[0] == 'X':
		return true
	}
	return false
}

// MedalUpdate checks a medal publish payload. The sub-sport must exist,
// every participant country must be a real ISO code eligible for that
// sub-sport, and counts must be non-negative. On success it returns the
// resolved country display names keyed by code.
func (v *Validator) MedalUpdate(ctx context.Context, req *dto.UpdateMedalRequest) (map[string]string, error) {
	subSport, err := v.sportRepo.SubSport(ctx, req.SportID, req.SportTypeID)
	if err != nil {
		if err == entity.ErrSubSportNotFound {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown sub-sport").
				WithField("sport_type_id", fmt.Sprintf("sport %d has no sub-sport %d", req.SportID, req.SportTypeID))
		}
		return nil, err
	}

	names := make(map[string]string, len(req.Participants))
	for _, p := range req.Participants {
		name, err := v.CountryName(p.Country)
		if err != nil {
			return nil, err
		}
		if !subSport.IsEligible(strings.ToUpper(p.Country)) {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "country not participating").
				WithField("country", fmt.Sprintf("%s is not participating in %s", p.Country, subSport.Name))
		}
		if p.Medal.Gold < 0 || p.Medal.Silver < 0 || p.Medal.Bronze < 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "negative medal count").
				WithField("medal", fmt.Sprintf("counts for %s must be non-negative", p.Country))
		}
		names[strings.ToUpper(p.Country)] = name
	}

	return names, nil
}

// AudienceUpdate checks an audience publish payload. Every record needs a
// real ISO country code, a known gender value, a non-negative age, and
// sport ids present in the catalog.
func (v *Validator) AudienceUpdate(ctx context.Context, req *dto.UpdateAudienceRequest) error {
	for _, record := range req.Audience {
		if _, err := v.CountryName(record.CountryCode); err != nil {
			return err
		}
		if !entity.Gender(record.Gender).IsValid() {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid gender").
				WithField("gender", fmt.Sprintf("%s is not one of M, F, N", record.Gender))
		}
		if record.Age < 0 {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid age").
				WithField("age", "age must be non-negative")
		}
		for _, sportID := range record.SportIDs {
			exists, err := v.sportRepo.SportExists(ctx, sportID)
			if err != nil {
				return err
			}
			if !exists {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown sport").
					WithField("sport_id", fmt.Sprintf("sport %d is not in the catalog", sportID))
			}
		}
	}
	return nil
}

// KeyScope checks a key issuance request. The scope must be non-empty and
// every capability name must be known.
func (v *Validator) KeyScope(scope map[string]bool) (entity.Scope, error) {
	if len(scope) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "empty scope").
			WithField("scope", "at least one capability is required")
	}
	result := make(entity.Scope, len(scope))
	for name, granted := range scope {
		cap := entity.Capability(name)
		if !cap.IsValid() {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown capability").
				WithField("scope", fmt.Sprintf("%s is not a known capability", name))
		}
		result[cap] = granted
	}
	return result, nil
}
