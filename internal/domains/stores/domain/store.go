package domain

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCNPJ          = errors.New("cnpj must have exactly 14 digits")
	ErrEmptyCorporateName   = errors.New("corporate name is required")
	ErrCorporateNameTooLong = errors.New("corporate name must be at most 50 characters")
	ErrInvalidEmail         = errors.New("email must contain '@'")
	ErrInvalidPhone         = errors.New("phone must have exactly 11 digits")
	ErrWeakPassword         = errors.New("password must be at least 3 characters")
)

const maxCorporateNameLength = 50

// Store is the tenant that owns products and orders.
type Store struct {
	ID            int64
	CNPJ          string
	CorporateName string
	Email         string
	Phone         string
	PasswordHash  string
}

// NewStore validates the registration fields and hashes the password.
func NewStore(cnpj, corporateName, email, phone, password string) (*Store, error) {
	store := &Store{
		CNPJ:          strings.TrimSpace(cnpj),
		CorporateName: strings.TrimSpace(corporateName),
		Email:         strings.ToLower(strings.TrimSpace(email)),
		Phone:         strings.TrimSpace(phone),
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	if err := store.SetPassword(password); err != nil {
		return nil, err
	}
	return store, nil
}

// Validate enforces the registration invariants except the password.
func (s *Store) Validate() error {
	if len(s.CNPJ) != 14 || !isDigits(s.CNPJ) {
		return ErrInvalidCNPJ
	}
	if s.CorporateName == "" {
		return ErrEmptyCorporateName
	}
	if len([]rune(s.CorporateName)) > maxCorporateNameLength {
		return ErrCorporateNameTooLong
	}
	if !strings.Contains(s.Email, "@") {
		return ErrInvalidEmail
	}
	if len(s.Phone) != 11 || !isDigits(s.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// SetPassword stores a bcrypt hash of password.
func (s *Store) SetPassword(password string) error {
	if len(strings.TrimSpace(password)) < 3 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares password against the stored hash.
func (s *Store) CheckPassword(password string) bool {
	if s.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
