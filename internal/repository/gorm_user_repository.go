package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"docportal/internal/model"
)

// userRow is the GORM model of the users table.
type userRow struct {
	ID           string     `gorm:"primaryKey;size:36"`
	Username     string     `gorm:"uniqueIndex;size:255;not null"`
	Email        string     `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	Name         string     `gorm:"size:255;not null"`
	Role         string     `gorm:"size:16;not null;index"`
	CreatedAt    time.Time  `gorm:"not null"`
	LastLogin    *time.Time
}

func (userRow) TableName() string {
	return "users"
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository builds a GORM-backed repository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

// Load returns every row. An empty table counts as no snapshot so the store seeds it.
func (r *gormUserRepository) Load(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoSnapshot
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, model.User{
			ID:           row.ID,
			Username:     row.Username,
			Email:        row.Email,
			PasswordHash: row.PasswordHash,
			Name:         row.Name,
			Role:         model.Role(row.Role),
			CreatedAt:    row.CreatedAt,
			LastLogin:    row.LastLogin,
		})
	}
	return users, nil
}

// Save replaces the table contents in a single transaction.
func (r *gormUserRepository) Save(ctx context.Context, users []model.User) error {
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Name:         u.Name,
			Role:         string(u.Role),
			CreatedAt:    u.CreatedAt,
			LastLogin:    u.LastLogin,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&userRow{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert users: %w", err)
		}
		return nil
	})
}
