package dto

// AudienceRecord is one respondent in an audience publish payload.
type AudienceRecord struct {
	ID          string  `json:"id" binding:"required"`
	CountryCode string  `json:"country_code" binding:"required"`
	SportIDs    []int64 `json:"sport_id" binding:"required"`
	Gender      string  `json:"gender" binding:"required"`
	Age         int     `json:"age" binding:"min=0"`
}

// UpdateAudienceRequest is the audience publish payload.
type UpdateAudienceRequest struct {
	Audience []AudienceRecord `json:"audience" binding:"required,dive"`
}
