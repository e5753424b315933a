package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/store-orders-api/internal/domains/stores/ports"
	platformpostgres "github.com/Apurer/store-orders-api/internal/platform/postgres"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore persists store sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save upserts a session keyed by token.
func (s *SessionStore) Save(ctx context.Context, session ports.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token := strings.TrimSpace(session.Token)
	email := strings.TrimSpace(session.Email)
	if token == "" || email == "" {
		return errors.New("token and email are required")
	}
	rec := sessionRecord{Token: token, Email: email}
	if !session.ExpiresAt.IsZero() {
		expiry := session.ExpiresAt.UTC()
		rec.ExpiresAt = &expiry
	}
	return platformpostgres.Conn(ctx, s.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *SessionStore) Get(ctx context.Context, token string) (ports.Session, error) {
	if err := s.ensureDB(); err != nil {
		return ports.Session{}, err
	}
	var rec sessionRecord
	if err := platformpostgres.Conn(ctx, s.db).First(&rec, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Session{}, ports.ErrSessionNotFound
		}
		return ports.Session{}, err
	}
	session := ports.Session{Token: rec.Token, Email: rec.Email}
	if rec.ExpiresAt != nil {
		session.ExpiresAt = *rec.ExpiresAt
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return platformpostgres.Conn(ctx, s.db).Delete(&sessionRecord{}, "token = ?", token).Error
}

// PurgeExpired removes all sessions expired at now. Use for housekeeping or cron.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := platformpostgres.Conn(ctx, s.db).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now.UTC()).
		Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}
