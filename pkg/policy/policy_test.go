package policy

import (
	"testing"

	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/errs"
	"github.com/stretchr/testify/assert"
)

var (
	anonymous = Identity{}
	user      = Identity{UserID: 1, Role: models.RoleUser}
	curator   = Identity{UserID: 2, Role: models.RoleCurator}
	admin     = Identity{UserID: 3, Role: models.RoleAdmin}
)

func TestAuthorize_Matrix(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		class   Class
		action  Action
		allowed bool
	}{
		{"user reads tags", user, ClassTag, Read, true},
		{"anonymous reads tags", anonymous, ClassTag, Read, false},
		{"user creates tag", user, ClassTag, Create, false},
		{"curator creates tag", curator, ClassTag, Create, true},
		{"curator deletes data", curator, ClassData, Delete, true},
		{"admin edits data", admin, ClassData, Edit, true},
		{"curator deletes language", curator, ClassLanguage, Delete, false},
		{"admin deletes language", admin, ClassLanguage, Delete, true},
		{"curator creates language", curator, ClassLanguage, Create, false},
		{"curator edits user", curator, ClassUser, Edit, false},
		{"admin deletes user", admin, ClassUser, Delete, true},
		{"curator edits tag information", curator, ClassTagInformation, Edit, false},
		{"admin edits tag information", admin, ClassTagInformation, Edit, true},
		{"admin deletes tag information", admin, ClassTagInformation, Delete, false},
		{"curator reads change log", curator, ClassChangeLog, Read, false},
		{"admin reads change log", admin, ClassChangeLog, Read, true},
		{"admin edits change log", admin, ClassChangeLog, Edit, false},
		{"user submits comment", user, ClassComment, Create, true},
		{"user reads comments", user, ClassComment, Read, false},
		{"curator reads comments", curator, ClassComment, Read, true},
		{"admin deletes comment", admin, ClassComment, Delete, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.id, tc.class, tc.action)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrForbidden)
				assert.NotErrorIs(t, err, errs.ErrNotFound)
			}
		})
	}
}

func TestIdentity_UnknownRoleIsAnonymous(t *testing.T) {
	id := Identity{UserID: 9, Role: models.Role("root")}

	assert.False(t, id.Authenticated())
	assert.False(t, Allowed(id, ClassTag, Read))
	assert.True(t, System.Authenticated())
}
