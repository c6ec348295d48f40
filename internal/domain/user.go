package domain

import "time"

type (
	UserId = string
	Email  = string
)

type Role string

const (
	RoleUser              Role = "user"
	RoleOrganizationAdmin Role = "organizationAdmin"
	RoleSubUser           Role = "subUser"
	RoleAdmin             Role = "admin"
)

// ParseRole maps a request-supplied role tag to a Role a user may register
// as. Admin accounts are provisioned out of band and can never be requested.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, "":
		return RoleUser, true
	case RoleOrganizationAdmin:
		return RoleOrganizationAdmin, true
	default:
		return "", false
	}
}

// ChallengePurpose selects which embedded VerificationChallenge an operation
// acts on.
type ChallengePurpose int

const (
	PurposeRegistration ChallengePurpose = iota
	PurposeForgotPassword
)

// VerificationChallenge is the lifecycle state of one emailed code.
// Attempts only grows between issuances; Verified is set at most once and
// clears Code permanently.
type VerificationChallenge struct {
	Code       string    `json:"code"`
	CreatedAt  time.Time `json:"createdAt"`
	Attempts   int       `json:"attempts"`
	Verified   bool      `json:"verified"`
	VerifiedAt time.Time `json:"verifiedAt,omitempty"`
}

// User is the identity aggregate. It owns both verification challenges;
// they have no independent lifecycle.
type User struct {
	Id          UserId
	Email       Email
	PassHash    string
	Role        Role
	Blocked     bool
	UserName    string
	PhoneNumber string
	// OrgId is the owning organizationAdmin's user id; set for sub-users only.
	OrgId UserId

	// Logins is the append-only audit trail of successful authentications.
	Logins []time.Time

	EmailVerification VerificationChallenge
	ForgotPassword    VerificationChallenge

	CreatedAt time.Time
}

// Registration is the payload of a registration-code request.
type Registration struct {
	Email           string
	Password        string
	ConfirmPassword string
	UserName        string
	PhoneNumber     string
	UserRole        string
}

// Challenge returns the embedded challenge for the given purpose.
func (u *User) Challenge(p ChallengePurpose) *VerificationChallenge {
	if p == PurposeForgotPassword {
		return &u.ForgotPassword
	}
	return &u.EmailVerification
}

// Session builds the session variant this user authenticates as.
func (u *User) Session() Session {
	switch u.Role {
	case RoleAdmin:
		return Session{Kind: SessionAdmin, UserId: u.Id, Email: u.Email, Role: u.Role}
	case RoleSubUser:
		return Session{Kind: SessionSubUser, UserId: u.Id, Email: u.Email, Role: u.Role, OrgId: u.OrgId}
	default:
		return Session{Kind: SessionUser, UserId: u.Id, Email: u.Email, Role: u.Role}
	}
}
