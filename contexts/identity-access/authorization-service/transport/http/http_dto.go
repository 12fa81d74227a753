package httptransport

import "time"

// HasRoleRequest is the request body for a membership lookup. Role accepts
// either a canonical token or a human-readable role name.
type HasRoleRequest struct {
	Role  string `json:"role"`
	Actor string `json:"actor"`
}

// HasRoleResponse describes one membership decision.
type HasRoleResponse struct {
	Role  string `json:"role"`
	Actor string `json:"actor"`
	Held  bool   `json:"held"`
}

type RoleGrantDTO struct {
	Role      string     `json:"role"`
	Actor     string     `json:"actor"`
	GrantedBy string     `json:"granted_by"`
	GrantedAt time.Time  `json:"granted_at"`
	IsActive  bool       `json:"is_active"`
	RevokedBy string     `json:"revoked_by,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

type ListActorRolesResponse struct {
	Actor string         `json:"actor"`
	Roles []RoleGrantDTO `json:"roles"`
}

type GrantRoleRequest struct {
	Role  string `json:"role"`
	Actor string `json:"actor"`
}

type GrantRoleResponse struct {
	Role      string    `json:"role"`
	Actor     string    `json:"actor"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

type RevokeRoleRequest struct {
	Role  string `json:"role"`
	Actor string `json:"actor"`
}

type RevokeRoleResponse struct {
	Role      string     `json:"role"`
	Actor     string     `json:"actor"`
	RevokedBy string     `json:"revoked_by"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
