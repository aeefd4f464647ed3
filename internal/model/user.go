package model

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
)

var roleRank = map[Role]int{RoleEditor: 1, RoleAdmin: 2, RoleSuperAdmin: 3}

// AtLeast reports whether r grants every permission of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] > 0 && roleRank[r] >= roleRank[min]
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Visitor struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}
