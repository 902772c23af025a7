package chat

import (
	"github.com/johealth/chat-backend/src/models"
)

// GatePredicate decides whether a friend request between two roles is
// permitted. Evaluated before a request is created; a false result surfaces
// as a forbidden error.
type GatePredicate func(senderRole, receiverRole models.Role) bool

// AllowAll is the default gate: any role may request any role.
func AllowAll(models.Role, models.Role) bool {
	return true
}

// RoleTableGate is the reference policy. Cross-role requests are always
// allowed; same-role requests are allowed only when the role's table entry
// says so (patients cannot friend patients).
func RoleTableGate(senderRole, receiverRole models.Role) bool {
	if senderRole != receiverRole {
		return true
	}
	spec, ok := models.RoleTable[senderRole]
	if !ok {
		return false
	}
	return spec.PeersSameRole
}
