package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
	"github.com/arborlabs/gatehouse/pkg/cryptox"
)

type credentialsRepo struct {
	db     *sql.DB
	hasher *cryptox.Hasher
}

var _ store.Credentials = (*credentialsRepo)(nil)

func (r *credentialsRepo) AddUser(ctx context.Context, user domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, requires_2fa)
		VALUES (?, ?, ?)`,
		user.Email.String(), user.PasswordHash, user.Requires2FA,
	)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *credentialsRepo) GetUser(ctx context.Context, email domain.Email) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT password_hash, requires_2fa
		FROM users
		WHERE email = ?`,
		email.String(),
	)

	user := domain.User{Email: email}
	if err := row.Scan(&user.PasswordHash, &user.Requires2FA); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return user, nil
}

func (r *credentialsRepo) ValidateUser(ctx context.Context, email domain.Email, password domain.Password) error {
	user, err := r.GetUser(ctx, email)
	if err != nil {
		return err
	}

	if err := r.hasher.Verify(ctx, user.PasswordHash, password.Expose()); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return store.ErrInvalidCredentials
		}
		return err
	}
	return nil
}
