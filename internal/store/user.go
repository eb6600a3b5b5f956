package store

import (
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/openfrosh/scunt/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, username, first_name, last_name, email, phone_number, is_admin, created_at, updated_at`

// editableUserColumns are the columns Update accepts.
var editableUserColumns = map[string]bool{
	"username":     true,
	"first_name":   true,
	"last_name":    true,
	"phone_number": true,
	"password":     true,
}

// Create registers a user. The first name must be non-blank and the email
// unregistered; the password is stored as a bcrypt hash.
func (s *UserStore) Create(username, firstName, lastName, email, password, phoneNumber string, isAdmin bool) (*model.User, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, fmt.Errorf("%w: first name", ErrValidation)
	}
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	result, err := tx.Exec(
		`INSERT INTO users (username, first_name, last_name, email, password_hash, phone_number, is_admin)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		username, firstName, lastName, email, string(hash), phoneNumber, isAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Authenticate checks the password for the account registered under email
// and returns the user on success. A missing account and a wrong password
// are indistinguishable to the caller.
func (s *UserStore) Authenticate(email, password string) (*model.User, error) {
	var hash string
	var id int64
	err := s.db.QueryRow(`SELECT id, password_hash FROM users WHERE email = ?`, email).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return nil, ErrAuthFailed
	}
	if err != nil {
		return nil, fmt.Errorf("auth lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrAuthFailed
	}
	return s.GetByID(id)
}

// Update overwrites the given fields with positionally matched values,
// keyed by the account's email. Passwords are re-hashed before storage.
func (s *UserStore) Update(email string, fields []string, values []string) (*model.User, error) {
	if len(fields) != len(values) {
		return nil, fmt.Errorf("%w: %d fields, %d values", ErrValidation, len(fields), len(values))
	}

	existing, err := s.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if len(fields) == 0 {
		return existing, nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for i, col := range fields {
		if !editableUserColumns[col] {
			return nil, fmt.Errorf("%w: unknown user column %q", ErrValidation, col)
		}
		if col == "password" {
			hash, err := bcrypt.GenerateFromPassword([]byte(values[i]), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			setClauses = append(setClauses, "password_hash = ?")
			args = append(args, string(hash))
			continue
		}
		setClauses = append(setClauses, col+" = ?")
		args = append(args, values[i])
	}
	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, email)

	query := `UPDATE users SET ` + strings.Join(setClauses, ", ") + ` WHERE email = ?`
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.GetByEmail(email)
}
