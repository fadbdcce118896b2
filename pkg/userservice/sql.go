package userservice

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Account is a row of the accounts table.
type Account struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:64;uniqueIndex;not null"`
	Email     string `gorm:"size:255;not null"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name.
func (Account) TableName() string {
	return "accounts"
}

// ErrDuplicateUsername is returned by Register for a username that already
// has a row.
var ErrDuplicateUsername = errors.New("userservice: duplicate username")

// ErrUnknownAccount is returned by Deactivate when no row holds the
// username.
var ErrUnknownAccount = errors.New("userservice: unknown account")

// SQLDirectory is a Service backed by the accounts table. A username is
// taken while any account row holds it; deactivated accounts keep theirs,
// matching the table's unique index.
type SQLDirectory struct {
	requestLog

	db *gorm.DB
}

// NewSQLDirectory creates a directory over db.
func NewSQLDirectory(db *gorm.DB) *SQLDirectory {
	return &SQLDirectory{
		requestLog: newRequestLog(),
		db:         db,
	}
}

// AutoMigrate creates or updates the accounts table.
func (d *SQLDirectory) AutoMigrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(&Account{}); err != nil {
		return unavailable("accounts migration failed", err)
	}
	return nil
}

// CanUseUsername publishes username and reports whether no account holds
// it.
func (d *SQLDirectory) CanUseUsername(ctx context.Context, username string) (bool, error) {
	d.publish(username)

	var count int64
	err := d.db.WithContext(ctx).
		Model(&Account{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, unavailable("username lookup failed", err)
	}
	return count == 0, nil
}

// Register claims username for email.
func (d *SQLDirectory) Register(ctx context.Context, username, email string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&Account{Username: username, Email: email, IsActive: true}).Error
		if err == nil {
			return nil
		}
		if isDuplicateError(err) {
			return ErrDuplicateUsername
		}
		return unavailable("account creation failed", err)
	})
}

// Deactivate marks the account holding username inactive. The username
// stays reserved.
func (d *SQLDirectory) Deactivate(ctx context.Context, username string) error {
	res := d.db.WithContext(ctx).
		Model(&Account{}).
		Where("username = ?", username).
		Update("is_active", false)
	if res.Error != nil {
		return unavailable("account update failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUnknownAccount
	}
	return nil
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
