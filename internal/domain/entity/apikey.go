package entity

// Capability names one action an access key may be granted. The set is
// closed; unknown names are rejected at issuance time.
type Capability string

const (
	CapabilityPublishMedal    Capability = "PUBLISH_MEDAL"
	CapabilityPublishAudience Capability = "PUBLISH_AUDIENCE"
)

// IsValid reports whether c is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityPublishMedal, CapabilityPublishAudience:
		return true
	}
	return false
}

// Capabilities returns every known capability.
func Capabilities() []Capability {
	return []Capability{CapabilityPublishMedal, CapabilityPublishAudience}
}

// Scope maps capability names to granted/denied.
type Scope map[Capability]bool

// Allows reports whether every required capability is present and true.
// Partial satisfaction is a denial.
func (s Scope) Allows(required ...Capability) bool {
	if s == nil {
		return false
	}
	for _, cap := range required {
		granted, ok := s[cap]
		if !ok || !granted {
			return false
		}
	}
	return true
}

// AccessKey is a stored bearer token with its granted scope. Keys are never
// rotated or revoked through this API.
type AccessKey struct {
	Key   string `bson:"key" json:"key"`
	Scope Scope  `bson:"scope" json:"scope"`
}
