package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"uniconnect/internal/app/db"
)

const userColumns = `id, name, email, phone, password_hash, state, course,
	passing_year, registration_number, avatar_url, bio, social_media, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var socialJSON []byte

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.State,
		&u.Course, &u.PassingYear, &u.RegistrationNumber, &u.AvatarURL,
		&u.Bio, &socialJSON, &u.CreatedAt,
	)
	if err != nil {
		return User{}, err
	}

	if len(socialJSON) > 0 {
		if err := json.Unmarshal(socialJSON, &u.SocialMedia); err != nil {
			return User{}, fmt.Errorf("decode social_media for user %s: %w", u.ID, err)
		}
	}

	return u, nil
}

// CreateUserParams carries the registration fields.
type CreateUserParams struct {
	Name               string
	Email              string
	Phone              string
	PasswordHash       string
	State              string
	Course             string
	PassingYear        int
	RegistrationNumber string
}

// CreateUser inserts a new account. Returns ErrDuplicateEmail if the email is taken.
func (s *Store) CreateUser(ctx context.Context, p CreateUserParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, password_hash, state, course, passing_year, registration_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		p.Name, p.Email, p.Phone, p.PasswordHash, p.State, p.Course, p.PassingYear, p.RegistrationNumber,
	)

	u, err := scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// GetUserByEmail fetches an account by its unique email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	u, err := scanUser(row)
	if err != nil {
		if db.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}

	return u, nil
}

// GetUserByID fetches an account by id.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if err != nil {
		if db.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}

	return u, nil
}

// UpdateProfileParams carries the mutable profile fields. Nil pointers mean
// "leave unchanged", matching the partial-update semantics of the profile endpoint.
type UpdateProfileParams struct {
	ID          uuid.UUID
	Name        *string
	Phone       *string
	State       *string
	Bio         *string
	SocialMedia []SocialLink
}

// UpdateProfile applies a partial profile update and returns the updated account.
func (s *Store) UpdateProfile(ctx context.Context, p UpdateProfileParams) (User, error) {
	var socialJSON any
	if p.SocialMedia != nil {
		encoded, err := json.Marshal(p.SocialMedia)
		if err != nil {
			return User{}, fmt.Errorf("encode social_media: %w", err)
		}
		socialJSON = encoded
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE users SET
			name         = COALESCE($2, name),
			phone        = COALESCE($3, phone),
			state        = COALESCE($4, state),
			bio          = COALESCE($5, bio),
			social_media = COALESCE($6, social_media)
		WHERE id = $1
		RETURNING `+userColumns,
		p.ID, p.Name, p.Phone, p.State, p.Bio, socialJSON,
	)

	u, err := scanUser(row)
	if err != nil {
		if db.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("update profile: %w", err)
	}

	return u, nil
}

// UpdateAvatar replaces the user's avatar URL and returns the previous value
// so the caller can delete the old object from storage.
func (s *Store) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (string, error) {
	var oldURL string

	err := s.pool.QueryRow(ctx, `
		UPDATE users u SET avatar_url = $2
		FROM (SELECT avatar_url FROM users WHERE id = $1) old
		WHERE u.id = $1
		RETURNING old.avatar_url`,
		id, avatarURL,
	).Scan(&oldURL)

	if err != nil {
		if db.IsNotFound(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("update avatar: %w", err)
	}

	return oldURL, nil
}

// SearchUsers runs a case-insensitive substring search over name and
// registration number, capped at limit results.
func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]UserSummary, error) {
	pattern := "%" + escapeLike(query) + "%"

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, avatar_url, registration_number, bio
		FROM users
		WHERE name ILIKE $1 OR registration_number ILIKE $1
		ORDER BY name
		LIMIT $2`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	results := make([]UserSummary, 0)
	for rows.Next() {
		var u UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.RegistrationNumber, &u.Bio); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, u)
	}

	return results, rows.Err()
}
