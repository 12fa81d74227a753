package valueobjects

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// RoleToken is an opaque fixed-width role identifier: the hex-encoded
// SHA-256 of the human-readable role name. New roles require no schema
// change, only a new name.
type RoleToken string

const tokenHexLength = 64

// RoleID derives the canonical token for a role name.
func RoleID(name string) RoleToken {
	sum := sha256.Sum256([]byte(name))
	return RoleToken(hex.EncodeToString(sum[:]))
}

// Well-known roles referenced across the ledger.
var (
	AdminRole        = RoleID("DEFAULT_ADMIN_ROLE")
	ManufacturerRole = RoleID("MANUFACTURER_ROLE")
	TransporterRole  = RoleID("TRANSPORTER_ROLE")
)

// Resolve accepts either a canonical token or a human-readable role name
// and returns the token form.
func Resolve(role string) RoleToken {
	role = strings.TrimSpace(role)
	if len(role) == tokenHexLength && isHex(role) {
		return RoleToken(strings.ToLower(role))
	}
	return RoleID(role)
}

func isHex(v string) bool {
	_, err := hex.DecodeString(strings.ToLower(v))
	return err == nil
}
