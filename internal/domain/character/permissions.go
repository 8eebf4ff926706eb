package character

import (
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
)

// Permission controls who may add or remove formulas on level up
type Permission string

const (
	// PermissionGMOnly lets only a GM manage formulas
	PermissionGMOnly Permission = "gm_only"

	// PermissionActorOwner prefers an active non-GM owner and falls back to a GM
	PermissionActorOwner Permission = "actor_owner"
)

// ParsePermission validates a configured permission value
func ParsePermission(value string) (Permission, error) {
	switch Permission(value) {
	case PermissionGMOnly, PermissionActorOwner:
		return Permission(value), nil
	default:
		return "", alcherr.InvalidArgumentf("unknown formula permission %q", value)
	}
}

// User is someone connected to the game session
type User struct {
	ID     string
	Name   string
	IsGM   bool
	Active bool
}

// HasActiveOwner reports whether any non-GM owner of the character is connected
func HasActiveOwner(char *Character, users []User) bool {
	for _, user := range users {
		if user.Active && !user.IsGM && char.IsOwnedBy(user.ID) {
			return true
		}
	}
	return false
}

// CanManageFormulas decides whether actingUser handles the formula prompts for char
func CanManageFormulas(permission Permission, char *Character, actingUser User, users []User) bool {
	switch permission {
	case PermissionGMOnly:
		return actingUser.IsGM
	case PermissionActorOwner:
		if HasActiveOwner(char, users) {
			return !actingUser.IsGM && char.IsOwnedBy(actingUser.ID)
		}
		return actingUser.IsGM
	default:
		return false
	}
}
