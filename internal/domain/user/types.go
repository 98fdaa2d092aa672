package user

// Role is the caller role supplied by the identity service. The booking core
// trusts it and only applies the renter/owner/admin ownership rule.
type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleRenter, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
