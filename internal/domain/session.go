package domain

// SessionKind is the closed set of session variants a token can carry.
// Authorization checks switch on it instead of sniffing optional claim
// fields.
type SessionKind string

const (
	SessionUser    SessionKind = "user"
	SessionAdmin   SessionKind = "admin"
	SessionSubUser SessionKind = "subUser"
)

// Session is the set of identity fields embedded in a token.
type Session struct {
	Kind   SessionKind
	UserId UserId
	Email  Email
	Role   Role
	// OrgId is only set for SessionSubUser.
	OrgId UserId
}

func (s Session) IsAdmin() bool {
	return s.Kind == SessionAdmin
}

// CanManageOrg reports whether this session may provision sub-users.
func (s Session) CanManageOrg() bool {
	return s.Kind == SessionAdmin || (s.Kind == SessionUser && s.Role == RoleOrganizationAdmin)
}
