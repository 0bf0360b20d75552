package dto

// GenerateKeyRequest asks for a key covering the named capabilities.
type GenerateKeyRequest struct {
	Scope map[string]bool `json:"scope" binding:"required"`
}

// GenerateKeyResponse returns the issued bearer token.
type GenerateKeyResponse struct {
	Key string `json:"key"`
}
