// Package payload turns submitted forms into backend request bodies.
// Builders are pure: the caller's role decides the shape of the payload,
// and nothing here touches the network.
package payload

import (
	"strconv"
	"strings"

	"topodash/internal/models"
)

// assignment resolves the owning-topographe foreign key for a create.
// Topographes create records for themselves, so the key is left out and
// the backend takes it from the token; admins and managers must pick one.
func assignment(role models.UserRole, raw string) (*int64, error) {
	switch role {
	case models.RoleTopographe:
		return nil, nil
	case models.RoleAdmin, models.RoleManager:
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return nil, ErrAssignmentRequired
		}
		return &id, nil
	default:
		return nil, ErrRoleNotAllowed
	}
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func trim(s string) string { return strings.TrimSpace(s) }

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
