package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// Session is a persisted operator session. Sealed holds the encrypted
// token and user; nothing else about the session is stored in clear.
type Session struct {
	ID     string `gorm:"primaryKey;size:64"`
	Sealed []byte `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{
		db: db,
	}
}

func (d *SessionDAO) Insert(ctx context.Context, s Session) (Session, error) {
	result := d.db.WithContext(ctx).Create(&s)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Session{}, ErrSessionExists
		}

		return Session{}, result.Error
	}

	return s, nil
}

func (d *SessionDAO) Update(ctx context.Context, s Session) (Session, error) {
	result := d.db.WithContext(ctx).
		Model(&Session{ID: s.ID}).
		Updates(map[string]interface{}{
			"sealed":     s.Sealed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return Session{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Session{}, ErrSessionNotFound
	}

	return d.FindByID(ctx, s.ID)
}

func (d *SessionDAO) FindByID(ctx context.Context, id string) (Session, error) {
	var s Session

	result := d.db.WithContext(ctx).First(&s, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return s, nil
}

func (d *SessionDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Session{}, "id = ?", id)

	return result.Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}
