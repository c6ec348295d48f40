package service

import (
	"fmt"
	"time"

	"github.com/lumeon-dev/accounts/internal/domain"
	"github.com/lumeon-dev/accounts/internal/errors"
	"github.com/lumeon-dev/accounts/internal/logger"
	"github.com/lumeon-dev/accounts/internal/utils"
)

// Registration codes keep a fixed 50-hour window, independent of the
// configured reset-code window: they are emailed once and users may come
// back to them much later.
const registrationChallengeTTL = 50 * time.Hour

// issueChallenge replaces the challenge for the given purpose with a fresh
// code, resetting attempts and the verified flag. Re-issuing over a pending
// challenge is the supported path for "send me a new code".
func (a *Auth) issueChallenge(user *domain.User, purpose domain.ChallengePurpose) string {
	code := utils.GenerateChallengeCode()
	*user.Challenge(purpose) = domain.VerificationChallenge{
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}
	return code
}

func (a *Auth) challengeTTL(purpose domain.ChallengePurpose) time.Duration {
	if purpose == domain.PurposeForgotPassword {
		return a.cfg.VerificationTTL()
	}
	return registrationChallengeTTL
}

// checkChallenge runs the confirmation preconditions in their fixed order.
// The attempt counter is incremented first, unconditionally, so every call
// counts against the limit whatever its outcome; the caller must persist the
// aggregate even when an error is returned.
func (a *Auth) checkChallenge(user *domain.User, purpose domain.ChallengePurpose, suppliedCode string) error {
	ch := user.Challenge(purpose)

	ch.Attempts++
	if ch.Attempts > a.cfg.Public.MaxVerificationAttempts {
		return errors.ErrMaxAttemptsReached
	}
	if ch.Verified {
		return errors.ErrAlreadyVerified
	}
	if time.Since(ch.CreatedAt) > a.challengeTTL(purpose) {
		return errors.ErrCodeExpired
	}
	if ch.Code == "" || suppliedCode != ch.Code {
		return errors.ErrCodeInvalid
	}
	return nil
}

// commitChallenge marks a checked challenge verified. Verified is terminal:
// the code is cleared and VerifiedAt is never re-dated.
func commitChallenge(ch *domain.VerificationChallenge) {
	ch.Verified = true
	ch.VerifiedAt = time.Now().UTC()
	ch.Code = ""
}

// dispatchCode emails a challenge code without blocking the request. A
// failed send is logged and otherwise ignored: the challenge is already
// persisted and the code can be re-requested.
func (a *Auth) dispatchCode(recipient, subject, code string) {
	body := fmt.Sprintf(`
		Hello,

		Your verification code below

		%s

		If you did not request this, please ignore this email.
	`, code)

	go func() {
		if err := a.email.Send(recipient, subject, body); err != nil {
			logger.Log.Error("failed to send verification email", "recipient", recipient, "error", err)
		}
	}()
}
