package models

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleTopographe UserRole = "TOPOGRAPHE"
	RoleManager    UserRole = "MANAGER"
	RoleTechnicien UserRole = "TECHNICIEN"
	RoleUser       UserRole = "USER"
)

var UserRoles = []UserRole{RoleAdmin, RoleTopographe, RoleManager, RoleTechnicien, RoleUser}

var roleMeta = map[UserRole]Meta{
	RoleAdmin:      {Label: "Administrateur", Badge: "danger"},
	RoleTopographe: {Label: "Topographe", Badge: "primary"},
	RoleManager:    {Label: "Manager", Badge: "info"},
	RoleTechnicien: {Label: "Technicien", Badge: "secondary"},
	RoleUser:       {Label: "Utilisateur", Badge: "light"},
}

func (r UserRole) Meta() Meta {
	if m, ok := roleMeta[r]; ok {
		return m
	}
	return unknownMeta
}

func (r UserRole) Valid() bool {
	_, ok := roleMeta[r]
	return ok
}

func RoleOptions() []Option { return options(UserRoles, UserRole.Meta) }

// User is an account managed by administrators.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Role        UserRole `json:"role"`
}
