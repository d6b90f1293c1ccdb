package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/port"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) CreateUser(ctx context.Context, u identity.User) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgUserRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO identity.account (email, full_name, hashed_password, profile_pic, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text
	`, u.Email, u.FullName, u.HashedPassword, u.ProfilePic, u.CreatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", repository.ErrDuplicateEmail
		}
		return "", err
	}
	return id, nil
}

func (r *PgUserRepository) GetUserByID(ctx context.Context, id string) (*identity.User, error) {
	return r.getUser(ctx, "id = $1::uuid", id)
}

func (r *PgUserRepository) GetUserByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.getUser(ctx, "email = $1", email)
}

func (r *PgUserRepository) getUser(ctx context.Context, where string, arg any) (*identity.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u identity.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, email, full_name, hashed_password, profile_pic, created_at
		FROM identity.account
		WHERE `+where, arg).Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.ProfilePic, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id string, fullName *string, profilePic *string) (*identity.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u identity.User
	err := r.pool.QueryRow(ctx, `
		UPDATE identity.account
		SET full_name  = COALESCE($2, full_name),
		    profile_pic = COALESCE($3, profile_pic)
		WHERE id = $1::uuid
		RETURNING id::text, email, full_name, hashed_password, profile_pic, created_at
	`, id, fullName, profilePic).Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.ProfilePic, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) ListUsersExcept(ctx context.Context, id string) ([]identity.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, email, full_name, hashed_password, profile_pic, created_at
		FROM identity.account
		WHERE id <> $1::uuid
		ORDER BY full_name ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []identity.User
	for rows.Next() {
		var u identity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.ProfilePic, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
