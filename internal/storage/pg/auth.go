package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/lumeon-dev/accounts/internal/domain"
	internal_errors "github.com/lumeon-dev/accounts/internal/errors"
)

// Users are stored document-style: scalar identity columns plus JSONB for
// the embedded challenges and the login history. SaveUser replaces the whole
// aggregate, last writer wins; the service layer serializes writers.

const userColumns = "id, email, password_hash, role, blocked, user_name, phone_number, org_id, logins, email_verification, forgot_password, created_at"

// =========================================================================
// Public methods (satisfy the service.AuthStorage interface)
// =========================================================================

func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.user(s.db, "email", email)
}

func (s *Storage) UserByID(id domain.UserId) (domain.User, error) {
	return s.user(s.db, "id", id)
}

func (s *Storage) Users() ([]domain.User, error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM users ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpsertPendingRegistration creates a user or overwrites the credential,
// profile and challenge fields of an existing row keyed by email. This is
// the documented "re-registration before verification resets the challenge"
// policy, not a conflict error.
func (s *Storage) UpsertPendingRegistration(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		fields, err := marshalUserJSON(user)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
        INSERT INTO users(`+userColumns+`)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (email) DO UPDATE SET
            password_hash = EXCLUDED.password_hash,
            role = EXCLUDED.role,
            user_name = EXCLUDED.user_name,
            phone_number = EXCLUDED.phone_number,
            email_verification = EXCLUDED.email_verification`,
			user.Id, user.Email, user.PassHash, user.Role, user.Blocked,
			user.UserName, user.PhoneNumber, nullable(user.OrgId),
			fields.logins, fields.emailVerification, fields.forgotPassword, user.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert pending registration: %w", err)
		}
		return nil
	})
}

func (s *Storage) CreateUser(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		fields, err := marshalUserJSON(user)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
        INSERT INTO users(`+userColumns+`)
        VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			user.Id, user.Email, user.PassHash, user.Role, user.Blocked,
			user.UserName, user.PhoneNumber, nullable(user.OrgId),
			fields.logins, fields.emailVerification, fields.forgotPassword, user.CreatedAt,
		)
		if isUniqueViolation(err) {
			return internal_errors.ErrUserAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return nil
	})
}

func (s *Storage) SaveUser(user domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		fields, err := marshalUserJSON(user)
		if err != nil {
			return err
		}
		result, err := tx.Exec(`
        UPDATE users SET
            email = $2,
            password_hash = $3,
            role = $4,
            blocked = $5,
            user_name = $6,
            phone_number = $7,
            org_id = $8,
            logins = $9,
            email_verification = $10,
            forgot_password = $11
        WHERE id = $1`,
			user.Id, user.Email, user.PassHash, user.Role, user.Blocked,
			user.UserName, user.PhoneNumber, nullable(user.OrgId),
			fields.logins, fields.emailVerification, fields.forgotPassword,
		)
		if err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for user save: %w", err)
		}
		if rowsAffected == 0 {
			return internal_errors.ErrUserNotFound
		}
		return nil
	})
}

func (s *Storage) DeleteUser(id domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM users WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		rowsDeleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows for user deletion: %w", err)
		}
		if rowsDeleted == 0 {
			return internal_errors.ErrUserNotFound
		}
		return nil
	})
}

// =========================================================================
// Internal helpers
// =========================================================================

func (s *Storage) user(q Querier, column string, value any) (domain.User, error) {
	row := q.QueryRow("SELECT "+userColumns+" FROM users WHERE "+column+" = $1", value)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanUser(row scannable) (domain.User, error) {
	var (
		user                        domain.User
		orgId                       sql.NullString
		logins, emailVer, forgotVer []byte
	)
	err := row.Scan(&user.Id, &user.Email, &user.PassHash, &user.Role, &user.Blocked,
		&user.UserName, &user.PhoneNumber, &orgId, &logins, &emailVer, &forgotVer, &user.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	user.OrgId = orgId.String

	if len(logins) > 0 {
		if err := json.Unmarshal(logins, &user.Logins); err != nil {
			return domain.User{}, fmt.Errorf("failed to unmarshal logins: %w", err)
		}
	}
	if err := json.Unmarshal(emailVer, &user.EmailVerification); err != nil {
		return domain.User{}, fmt.Errorf("failed to unmarshal email verification: %w", err)
	}
	if err := json.Unmarshal(forgotVer, &user.ForgotPassword); err != nil {
		return domain.User{}, fmt.Errorf("failed to unmarshal forgot password verification: %w", err)
	}
	return user, nil
}

type userJSON struct {
	logins            []byte
	emailVerification []byte
	forgotPassword    []byte
}

func marshalUserJSON(user domain.User) (userJSON, error) {
	logins := user.Logins
	if logins == nil {
		logins = []time.Time{}
	}
	loginsB, err := json.Marshal(logins)
	if err != nil {
		return userJSON{}, fmt.Errorf("failed to marshal logins: %w", err)
	}
	emailVerB, err := json.Marshal(user.EmailVerification)
	if err != nil {
		return userJSON{}, fmt.Errorf("failed to marshal email verification: %w", err)
	}
	forgotB, err := json.Marshal(user.ForgotPassword)
	if err != nil {
		return userJSON{}, fmt.Errorf("failed to marshal forgot password verification: %w", err)
	}
	return userJSON{loginsB, emailVerB, forgotB}, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
