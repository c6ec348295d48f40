package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumeon-dev/accounts/internal/config"
	"github.com/lumeon-dev/accounts/internal/domain"
	"github.com/lumeon-dev/accounts/internal/errors"
	"github.com/lumeon-dev/accounts/internal/logger"
	"github.com/lumeon-dev/accounts/internal/utils"
)

type AuthService interface {
	Register(reg domain.Registration) (domain.User, string, error)
	ResendCode(email domain.Email) (domain.User, string, error)
	ConfirmRegistration(email domain.Email, code string) (domain.User, string, error)
	Login(email domain.Email, password string) (domain.User, string, error)
	ChangePassword(userId domain.UserId, current, newPassword, confirmPassword string) error
	ForgotPassword(email domain.Email) (domain.User, string, error)
	ResetPassword(email domain.Email, code, newPassword, confirmPassword string) error
	Profile(userId domain.UserId) (domain.User, error)
	IsBlocked(userId domain.UserId) (bool, error)

	// Admin operations
	Users() ([]domain.User, error)
	BlockUser(userId domain.UserId) error
	UnblockUser(userId domain.UserId) error
	DeleteUser(userId domain.UserId) error
	CreateSubUser(actor domain.Session, email, password, userName string) (domain.User, error)
}

// AuthStorage is the identity-store contract. Save is last-write-wins whole
// aggregate replacement; the service serializes writers per user.
type AuthStorage interface {
	UserByEmail(email domain.Email) (domain.User, error)
	UserByID(id domain.UserId) (domain.User, error)
	Users() ([]domain.User, error)
	// UpsertPendingRegistration creates the user or, for an existing
	// unverified user, overwrites password, profile and challenge fields.
	UpsertPendingRegistration(user domain.User) error
	CreateUser(user domain.User) error
	SaveUser(user domain.User) error
	DeleteUser(id domain.UserId) error
}

type Sender interface {
	Send(recipientEmail, subject, body string) error
}

type TokenIssuer interface {
	NewToken(sess domain.Session) (string, error)
}

type Auth struct {
	storage AuthStorage
	email   Sender
	jwt     TokenIssuer
	cfg     *config.Config
	locks   *keyedMutex
}

func NewAuth(storage AuthStorage, email Sender, jwt TokenIssuer, cfg *config.Config) *Auth {
	return &Auth{
		storage: storage,
		email:   email,
		jwt:     jwt,
		cfg:     cfg,
		locks:   newKeyedMutex(),
	}
}

// Register handles a registration-code request. Re-registering an unverified
// email overwrites the pending challenge and password rather than erroring;
// only a verified account blocks the email.
func (a *Auth) Register(reg domain.Registration) (domain.User, string, error) {
	email := utils.NormalizeEmail(reg.Email)
	if err := utils.ValidateEmail(email); err != nil {
		return domain.User{}, "", err
	}
	if err := utils.ValidatePassword(reg.Password); err != nil {
		return domain.User{}, "", err
	}
	if reg.Password != reg.ConfirmPassword {
		return domain.User{}, "", errors.ErrConfirmPasswordMismatch
	}
	role, ok := domain.ParseRole(reg.UserRole)
	if !ok {
		return domain.User{}, "", errors.ErrInvalidUserRole
	}

	unlock := a.locks.Lock(email)
	defer unlock()

	user, err := a.storage.UserByEmail(email)
	switch {
	case err == nil:
		if user.EmailVerification.Verified {
			return domain.User{}, "", errors.ErrUserAlreadyExists
		}
	case errors.IsNotFound(err):
		user = domain.User{
			Id:        uuid.NewString(),
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	default:
		return domain.User{}, "", err
	}

	passHash, err := utils.HashPassword(reg.Password)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, "", err
	}

	user.PassHash = passHash
	user.Role = role
	user.UserName = reg.UserName
	user.PhoneNumber = reg.PhoneNumber
	code := a.issueChallenge(&user, domain.PurposeRegistration)

	if err := a.storage.UpsertPendingRegistration(user); err != nil {
		return domain.User{}, "", err
	}

	a.dispatchCode(email, "Please confirm your email address", code)
	return user, code, nil
}

// ResendCode re-issues the registration challenge for a pending user.
func (a *Auth) ResendCode(email domain.Email) (domain.User, string, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return domain.User{}, "", err
	}

	unlock := a.locks.Lock(email)
	defer unlock()

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}
	if user.EmailVerification.Verified {
		return domain.User{}, "", errors.ErrUserAlreadyRegistered
	}

	code := a.issueChallenge(&user, domain.PurposeRegistration)
	if err := a.storage.SaveUser(user); err != nil {
		return domain.User{}, "", err
	}

	a.dispatchCode(email, "Please confirm your email address", code)
	return user, code, nil
}

// ConfirmRegistration runs the registration challenge to completion. On
// success the user is verified, a login timestamp is appended and a session
// token is returned. The attempt increment persists on every outcome.
func (a *Auth) ConfirmRegistration(email domain.Email, code string) (domain.User, string, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return domain.User{}, "", err
	}

	unlock := a.locks.Lock(email)
	defer unlock()

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}

	checkErr := a.checkChallenge(&user, domain.PurposeRegistration, code)
	if checkErr == nil {
		commitChallenge(&user.EmailVerification)
		user.Logins = append(user.Logins, time.Now().UTC())
	}
	if err := a.storage.SaveUser(user); err != nil {
		return domain.User{}, "", err
	}
	if checkErr != nil {
		return domain.User{}, "", checkErr
	}

	token, err := a.jwt.NewToken(user.Session())
	if err != nil {
		logger.Log.Error("failed to create session token", "user_id", user.Id, "error", err)
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Login validates credentials and returns a session token. Checks run in a
// fixed order: existence, blocked, email verified, password.
func (a *Auth) Login(email domain.Email, password string) (domain.User, string, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return domain.User{}, "", err
	}

	unlock := a.locks.Lock(email)
	defer unlock()

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			// don't leak which emails exist
			return domain.User{}, "", errors.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if user.Blocked {
		return domain.User{}, "", errors.ErrUserBlocked
	}
	if !user.EmailVerification.Verified {
		return domain.User{}, "", errors.ErrEmailNotVerified
	}
	if !utils.CheckPassword(password, user.PassHash) {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	user.Logins = append(user.Logins, time.Now().UTC())
	if err := a.storage.SaveUser(user); err != nil {
		return domain.User{}, "", err
	}

	token, err := a.jwt.NewToken(user.Session())
	if err != nil {
		logger.Log.Error("failed to create session token", "user_id", user.Id, "error", err)
		return domain.User{}, "", err
	}
	return user, token, nil
}

// ChangePassword replaces the password of an authenticated user after
// re-checking the current one.
func (a *Auth) ChangePassword(userId domain.UserId, current, newPassword, confirmPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return errors.ErrConfirmPasswordMismatch
	}

	found, err := a.storage.UserByID(userId)
	if err != nil {
		return err
	}

	unlock := a.locks.Lock(found.Email)
	defer unlock()

	// re-read under the lock
	user, err := a.storage.UserByEmail(found.Email)
	if err != nil {
		return err
	}
	if user.Blocked {
		return errors.ErrUserBlocked
	}
	if !utils.CheckPassword(current, user.PassHash) {
		return errors.ErrInvalidCredentials
	}
	if utils.CheckPassword(newPassword, user.PassHash) {
		return errors.ErrSameAsOldPassword
	}

	passHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	user.PassHash = passHash
	return a.storage.SaveUser(user)
}

// ForgotPassword issues a reset challenge for a verified account.
func (a *Auth) ForgotPassword(email domain.Email) (domain.User, string, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return domain.User{}, "", err
	}

	unlock := a.locks.Lock(email)
	defer unlock()

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}
	if !user.EmailVerification.Verified {
		return domain.User{}, "", errors.ErrUserNotRegistered
	}

	code := a.issueChallenge(&user, domain.PurposeForgotPassword)
	if err := a.storage.SaveUser(user); err != nil {
		return domain.User{}, "", err
	}

	a.dispatchCode(email, "Reset your password", code)
	return user, code, nil
}

// ResetPassword confirms a reset challenge and replaces the password. The
// same-as-old check runs after the code matched, so a correct code with a
// recycled password still burns an attempt but leaves the challenge open.
func (a *Auth) ResetPassword(email domain.Email, code, newPassword, confirmPassword string) error {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return errors.ErrConfirmPasswordMismatch
	}

	unlock := a.locks.Lock(email)
	defer unlock()

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		return err
	}

	checkErr := a.checkChallenge(&user, domain.PurposeForgotPassword, code)
	if checkErr == nil {
		if utils.CheckPassword(newPassword, user.PassHash) {
			checkErr = errors.ErrSameAsOldPassword
		} else {
			passHash, err := utils.HashPassword(newPassword)
			if err != nil {
				logger.Log.Error("failed to hash password", "error", err)
				return err
			}
			commitChallenge(&user.ForgotPassword)
			user.PassHash = passHash
		}
	}
	if err := a.storage.SaveUser(user); err != nil {
		return err
	}
	return checkErr
}

func (a *Auth) Profile(userId domain.UserId) (domain.User, error) {
	return a.storage.UserByID(userId)
}

// IsBlocked is the middleware hook checked on every authenticated request.
func (a *Auth) IsBlocked(userId domain.UserId) (bool, error) {
	user, err := a.storage.UserByID(userId)
	if err != nil {
		return false, err
	}
	return user.Blocked, nil
}

func (a *Auth) Users() ([]domain.User, error) {
	return a.storage.Users()
}

func (a *Auth) BlockUser(userId domain.UserId) error {
	return a.setBlocked(userId, true)
}

func (a *Auth) UnblockUser(userId domain.UserId) error {
	return a.setBlocked(userId, false)
}

func (a *Auth) setBlocked(userId domain.UserId, blocked bool) error {
	found, err := a.storage.UserByID(userId)
	if err != nil {
		return err
	}

	unlock := a.locks.Lock(found.Email)
	defer unlock()

	user, err := a.storage.UserByEmail(found.Email)
	if err != nil {
		return err
	}
	user.Blocked = blocked
	return a.storage.SaveUser(user)
}

func (a *Auth) DeleteUser(userId domain.UserId) error {
	return a.storage.DeleteUser(userId)
}

// CreateSubUser provisions a sub-user under the actor's organization. The
// account is born verified; the actor hands over the initial password.
func (a *Auth) CreateSubUser(actor domain.Session, email, password, userName string) (domain.User, error) {
	if !actor.CanManageOrg() {
		return domain.User{}, errors.ErrAccessDenied
	}
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return domain.User{}, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return domain.User{}, err
	}

	unlock := a.locks.Lock(email)
	defer unlock()

	if _, err := a.storage.UserByEmail(email); err == nil {
		return domain.User{}, errors.ErrUserAlreadyExists
	} else if !errors.IsNotFound(err) {
		return domain.User{}, err
	}

	passHash, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		Id:        uuid.NewString(),
		Email:     email,
		PassHash:  passHash,
		Role:      domain.RoleSubUser,
		OrgId:     actor.UserId,
		UserName:  userName,
		CreatedAt: now,
		EmailVerification: domain.VerificationChallenge{
			Verified:   true,
			VerifiedAt: now,
		},
	}
	if err := a.storage.CreateUser(user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
