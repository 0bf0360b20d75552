package entity

// Gender is the closed 3-value gender enumeration.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderNeutral Gender = "N"
)

// IsValid reports whether g is one of the allowed values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNeutral:
		return true
	}
	return false
}

// Audience is one respondent record, keyed by a caller-supplied id and
// upserted last-write-wins.
type Audience struct {
	ID          string  `bson:"_id" json:"id"`
	CountryCode string  `bson:"country_code" json:"country_code"`
	SportIDs    []int64 `bson:"sport_id" json:"sport_id"`
	Gender      Gender  `bson:"gender" json:"gender"`
	Age         int     `bson:"age" json:"age"`
}
