package models

// Role is the capability class of a user. Roles are practically ordered
// user < curator < admin.
type Role string

const (
	RoleUser    Role = "user"
	RoleCurator Role = "curator"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCurator, RoleAdmin:
		return true
	}
	return false
}

// User is an account. Password always holds a salted hash; hashing happens
// explicitly before a record reaches the store.
type User struct {
	Base

	Username string `gorm:"type:varchar(255);not null;uniqueIndex" json:"username" validate:"required,max=255"`
	Password string `gorm:"type:varchar(255);not null"             json:"-"        validate:"required"`
	Role     Role   `gorm:"type:varchar(16);not null"              json:"role"     validate:"required,oneof=user curator admin"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) Columns() map[string]any {
	cols := u.columns()
	cols["username"] = u.Username
	cols["password"] = u.Password
	cols["role"] = string(u.Role)
	return cols
}

func (u *User) SensitiveColumns() []string {
	return []string{"password"}
}
