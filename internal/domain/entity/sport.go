package entity

// SportDetail is a catalog entry for one sport. Read-only from the API's
// perspective. SportTypes is populated by the reference join when details
// are served.
type SportDetail struct {
	SportID    int64          `bson:"sport_id" json:"sport_id,omitempty"`
	SportName  string         `bson:"sport_name" json:"sport_name"`
	Summary    string         `bson:"summary" json:"summary"`
	SportTypes []SubSportInfo `bson:"sport_types,omitempty" json:"sport_types,omitempty"`
}

// SubSportInfo is the sub-sport view nested under a sport detail.
type SubSportInfo struct {
	TypeID                 int64    `bson:"type_id" json:"type_id"`
	Name                   string   `bson:"name" json:"name"`
	ParticipatingCountries []string `bson:"participating_countries" json:"participating_countries"`
}

// SubSportType is a catalog entry for one (sport, sub-sport) pair. The
// participating_countries list is the authority for eligibility checks.
type SubSportType struct {
	SportID                int64    `bson:"sport_id" json:"sport_id"`
	TypeID                 int64    `bson:"type_id" json:"type_id"`
	Name                   string   `bson:"name" json:"name"`
	ParticipatingCountries []string `bson:"participating_countries" json:"participating_countries"`
}

// IsEligible reports whether the country may report medals for this
// sub-sport.
func (s *SubSportType) IsEligible(countryCode string) bool {
	for _, c := range s.ParticipatingCountries {
		if c == countryCode {
			return true
		}
	}
	return false
}
