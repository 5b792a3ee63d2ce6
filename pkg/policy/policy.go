// Package policy holds the role-based capability matrix. Checks are pure
// functions of the caller identity, the entity class and the action, so a
// denial never depends on whether the target row exists.
package policy

import (
	"fmt"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
)

// Identity is the authenticated caller of an operation. The zero value is an
// anonymous caller.
type Identity struct {
	UserID uint
	Role   models.Role
}

// System is the identity used for startup bootstrap writes.
var System = Identity{UserID: 0, Role: models.RoleAdmin}

// Authenticated reports whether the identity carries a known role.
func (id Identity) Authenticated() bool {
	return id.Role.Valid()
}

// Class is an entity class the matrix grants capabilities on.
type Class string

const (
	ClassTag            Class = "tag"
	ClassData           Class = "data"
	ClassLanguage       Class = "language"
	ClassUser           Class = "user"
	ClassTagInformation Class = "tag_information"
	ClassChangeLog      Class = "change_log"
	ClassComment        Class = "comment"
)

// Action is an operation on an entity class.
type Action string

const (
	Read   Action = "read"
	Create Action = "create"
	Edit   Action = "edit"
	Delete Action = "delete"
)

var (
	anyUser  = []models.Role{models.RoleUser, models.RoleCurator, models.RoleAdmin}
	curators = []models.Role{models.RoleCurator, models.RoleAdmin}
	admins   = []models.Role{models.RoleAdmin}
)

// matrix lists the roles granted each action. A missing entry denies everyone.
var matrix = map[Class]map[Action][]models.Role{
	ClassTag: {
		Read:   anyUser,
		Create: curators,
		Edit:   curators,
		Delete: curators,
	},
	ClassData: {
		Read:   anyUser,
		Create: curators,
		Edit:   curators,
		Delete: curators,
	},
	ClassLanguage: {
		Read:   anyUser,
		Create: admins,
		Edit:   admins,
		Delete: admins,
	},
	ClassUser: {
		Read:   admins,
		Create: admins,
		Edit:   admins,
		Delete: admins,
	},
	ClassTagInformation: {
		Read:   anyUser,
		Create: admins,
		Edit:   admins,
	},
	ClassChangeLog: {
		Read: admins,
	},
	ClassComment: {
		Read:   curators,
		Create: anyUser,
	},
}

// Allowed reports whether id may perform action on class.
func Allowed(id Identity, class Class, action Action) bool {
	if !id.Authenticated() {
		return false
	}
	for _, role := range matrix[class][action] {
		if role == id.Role {
			return true
		}
	}
	return false
}

// Authorize returns an error wrapping errs.ErrForbidden when id may not
// perform action on class.
func Authorize(id Identity, class Class, action Action) error {
	if Allowed(id, class, action) {
		return nil
	}
	return fmt.Errorf("%w: %s cannot %s %s", errs.ErrForbidden, describe(id), action, class)
}

func describe(id Identity) string {
	if !id.Authenticated() {
		return "anonymous caller"
	}
	return fmt.Sprintf("role '%s'", id.Role)
}
