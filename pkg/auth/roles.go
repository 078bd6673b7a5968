package auth

type Role int

const (
	RolePatron Role = iota
	RoleLibrarian
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleLibrarian:
		return "librarian"
	default:
		return "patron"
	}
}

func ParseRole(name string) (Role, bool) {
	switch name {
	case "admin":
		return RoleAdmin, true
	case "librarian":
		return RoleLibrarian, true
	case "patron":
		return RolePatron, true
	}
	return RolePatron, false
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) IsLibrarian() bool { return r == RoleLibrarian }

func (r Role) CanManageBooks() bool { return r == RoleAdmin || r == RoleLibrarian }

func (r Role) CanManageUsers() bool { return r == RoleAdmin }

func (r Role) CanViewStats() bool { return r == RoleAdmin }

func (r Role) CanAssignRoles() bool { return r == RoleAdmin }

// RoleIDs maps roles to the ids configured for the roles table.
type RoleIDs struct {
	Admin     uint
	Librarian uint
	Patron    uint
}

// Resolve returns the role stored under id. Unknown ids resolve to Patron,
// the role with the fewest capabilities.
func (ids RoleIDs) Resolve(id uint) Role {
	switch id {
	case ids.Admin:
		return RoleAdmin
	case ids.Librarian:
		return RoleLibrarian
	default:
		return RolePatron
	}
}

func (ids RoleIDs) ID(r Role) uint {
	switch r {
	case RoleAdmin:
		return ids.Admin
	case RoleLibrarian:
		return ids.Librarian
	default:
		return ids.Patron
	}
}

func (ids RoleIDs) Known(id uint) bool {
	return id == ids.Admin || id == ids.Librarian || id == ids.Patron
}
