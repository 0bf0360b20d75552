package dto

// MedalSet carries one participant's medal counts. Counts are absolute
// values, not deltas.
type MedalSet struct {
	Gold   int64 `json:"gold" binding:"min=0"`
	Silver int64 `json:"silver" binding:"min=0"`
	Bronze int64 `json:"bronze" binding:"min=0"`
}

// Participant pairs a country with its medal counts.
type Participant struct {
	Country string   `json:"country" binding:"required"`
	Medal   MedalSet `json:"medal"`
}

// UpdateMedalRequest is the medal publish payload. All participants share
// one (sport_id, sport_type_id) event.
type UpdateMedalRequest struct {
	SportID      int64         `json:"sport_id" binding:"required"`
	SportTypeID  int64         `json:"sport_type_id" binding:"required"`
	Participants []Participant `json:"participants" binding:"required,dive"`
}
