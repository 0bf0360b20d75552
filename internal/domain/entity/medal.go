package entity

// SportTally is one per-(sport, sub-sport) medal count nested under a
// country document. At most one tally exists per (sport_id, type_id) pair
// per country.
type SportTally struct {
	SportID int64 `bson:"sport_id" json:"sport_id"`
	TypeID  int64 `bson:"type_id" json:"type_id"`
	Gold    int64 `bson:"gold" json:"gold"`
	Silver  int64 `bson:"silver" json:"silver"`
	Bronze  int64 `bson:"bronze" json:"bronze"`
}

// CountryMedals is the stored medal document, one per country. Created on
// the first medal write for the country and mutated in place afterwards.
type CountryMedals struct {
	CountryCode string       `bson:"country_code" json:"country_code"`
	CountryName string       `bson:"country_name" json:"country_name"`
	Sports      []SportTally `bson:"sports" json:"sports"`
}

// MedalCount is a plain gold/silver/bronze triple.
type MedalCount struct {
	Gold   int64 `bson:"gold" json:"gold"`
	Silver int64 `bson:"silver" json:"silver"`
	Bronze int64 `bson:"bronze" json:"bronze"`
}

// SubSportBreakdown is the leaf of a rollup: one sub-sport's counts.
type SubSportBreakdown struct {
	SubID   int64  `bson:"sub_id" json:"sub_id"`
	SubName string `bson:"sub_name" json:"sub_name"`
	Gold    int64  `bson:"gold" json:"gold"`
	Silver  int64  `bson:"silver" json:"silver"`
	Bronze  int64  `bson:"bronze" json:"bronze"`
}

// SportBreakdown is one sport's counts within a country rollup, carrying
// its sub-sport breakdown.
type SportBreakdown struct {
	SportID   int64               `bson:"sport_id" json:"sport_id"`
	SportName string              `bson:"sport_name" json:"sport_name"`
	Gold      int64               `bson:"gold" json:"gold"`
	Silver    int64               `bson:"silver" json:"silver"`
	Bronze    int64               `bson:"bronze" json:"bronze"`
	SubSports []SubSportBreakdown `bson:"sub_sports" json:"sub_sports"`
}

// CountryRollup is the nested response document for one country.
type CountryRollup struct {
	Country          string           `bson:"country" json:"country"`
	CountryName      string           `bson:"country_name" json:"country_name"`
	Gold             int64            `bson:"gold" json:"gold"`
	Silver           int64            `bson:"silver" json:"silver"`
	Bronze           int64            `bson:"bronze" json:"bronze"`
	IndividualSports []SportBreakdown `bson:"individual_sports" json:"individual_sports"`
}

// CountryBreakdown is one country's counts within a sport rollup.
type CountryBreakdown struct {
	CountryCode string              `bson:"country_code" json:"country_code"`
	CountryName string              `bson:"country_name" json:"country_name"`
	Gold        int64               `bson:"gold" json:"gold"`
	Silver      int64               `bson:"silver" json:"silver"`
	Bronze      int64               `bson:"bronze" json:"bronze"`
	SubSports   []SubSportBreakdown `bson:"sub_sports" json:"sub_sports"`
}

// SportRollup is the nested response document for one sport.
type SportRollup struct {
	Sport               int64              `bson:"sport" json:"sport"`
	SportName           string             `bson:"sport_name" json:"sport_name"`
	Gold                int64              `bson:"gold" json:"gold"`
	Silver              int64              `bson:"silver" json:"silver"`
	Bronze              int64              `bson:"bronze" json:"bronze"`
	IndividualCountries []CountryBreakdown `bson:"individual_countries" json:"individual_countries"`
}

// CountryLeaf is one country's counts at the sub-sport level, where no
// further breakdown exists.
type CountryLeaf struct {
	CountryCode string `bson:"country_code" json:"country_code"`
	CountryName string `bson:"country_name" json:"country_name"`
	Gold        int64  `bson:"gold" json:"gold"`
	Silver      int64  `bson:"silver" json:"silver"`
	Bronze      int64  `bson:"bronze" json:"bronze"`
}

// SubSportRollup is the nested response document for one (sport, sub-sport)
// pair.
type SubSportRollup struct {
	SportID             int64         `bson:"sport_id" json:"sport_id"`
	SportName           string        `bson:"sport_name" json:"sport_name"`
	SubSportID          int64         `bson:"sub_sport_id" json:"sub_sport_id"`
	SubSportName        string        `bson:"sub_sport_name" json:"sub_sport_name"`
	Gold                int64         `bson:"gold" json:"gold"`
	Silver              int64         `bson:"silver" json:"silver"`
	Bronze              int64         `bson:"bronze" json:"bronze"`
	IndividualCountries []CountryLeaf `bson:"individual_countries" json:"individual_countries"`
}
