package persistence

import (
	"context"

	"github.com/khoahotran/duo-site/internal/domain/user"
)

type postgresUserRepo struct {
	db DB
}

func NewPostgresUserRepo(db DB) user.Repository {
	return &postgresUserRepo{db: db}
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash
		FROM users
		WHERE email = $1
	`
	u := &user.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if err != nil {
		return nil, notFoundOr("user", email, err)
	}
	return u, nil
}

// Upsert creates the user or replaces its password and name.
func (r *postgresUserRepo) Upsert(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name, password_hash = EXCLUDED.password_hash, updated_at = NOW()
	`, u.ID, u.Email, u.Name, u.PasswordHash)
	if err != nil {
		return dbError("user", "email", u.Email, "save", err)
	}
	return nil
}
