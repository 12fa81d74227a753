package entities

import "time"

// RoleGrant captures an active or historical role membership. Revocation
// never removes the record; it flips IsActive and stamps RevokedAt.
type RoleGrant struct {
	Role      string     `json:"role"`
	Actor     string     `json:"actor"`
	GrantedBy string     `json:"granted_by"`
	GrantedAt time.Time  `json:"granted_at"`
	IsActive  bool       `json:"is_active"`
	RevokedBy string     `json:"revoked_by,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}
