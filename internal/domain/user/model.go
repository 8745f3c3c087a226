package user

// Role is the portal-level role attached to an authenticated account.
type Role string

const (
	RoleOperator Role = "operator"
	RoleCaptain  Role = "captain"
	RolePlayer   Role = "player"
)

// Principal is the authenticated identity the account service hands us.
// The engine trusts it as-is; approval and role checks happen at the route layer.
type Principal struct {
	UserID   string
	Role     Role
	Approved bool
}

func (p Principal) IsOperator() bool {
	return p.Role == RoleOperator
}
