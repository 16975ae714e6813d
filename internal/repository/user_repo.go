package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"hotelbooking/internal/db"
)

type UserRepository interface {
	GetByUsernameOrEmail(login string) (*db.User, error)
	GetByID(id int64) (*db.User, error)
	CreateUser(user *db.User) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

const userColumns = `id, username, email, password_hash, full_name, phone, role, created_at`

func (r *userRepository) GetByUsernameOrEmail(login string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, login).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user %q: %w", login, err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(id int64) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) CreateUser(user *db.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, full_name, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`
	return r.db.QueryRow(query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.Phone, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
}
