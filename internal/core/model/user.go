package model

import "strings"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleContractor Role = "CONTRACTOR"
)

// ParseRole maps a role name, in any case, to its Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleContractor:
		return RoleContractor, true
	}
	return "", false
}

// User is a portal account. Inactive users keep their history but lose access.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsManager() bool {
	return a.Role == RoleManager
}

func (a Actor) IsContractor() bool {
	return a.Role == RoleContractor
}

// CanView reports whether the actor may read the given submission.
func (a Actor) CanView(s *Submission) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return s.ManagerID == a.ID
	case RoleContractor:
		return s.ContractorID == a.ID
	}
	return false
}
