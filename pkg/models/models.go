package models

import (
	"strings"
	"time"
)

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:128;not null"`
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	FullName     string `gorm:"size:128;not null"`
	Login        string `gorm:"size:32;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:256;not null"`
	RoleID       uint   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Role Role `gorm:"foreignKey:RoleID"`
}

// JoinFullName builds the stored "last first middle" form.
func JoinFullName(lastName, firstName, middleName string) string {
	return strings.TrimSpace(strings.Join([]string{lastName, firstName, middleName}, " "))
}

func (u User) LastName() string { return u.namePart(0) }

func (u User) FirstName() string { return u.namePart(1) }

func (u User) MiddleName() string { return u.namePart(2) }

func (u User) namePart(i int) string {
	parts := strings.Fields(u.FullName)
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:128;not null;uniqueIndex"`
}

type Series struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:128;not null;uniqueIndex"`
}

type Publisher struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:128;not null;uniqueIndex"`
}

type Book struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:128;not null"`
	Author      string `gorm:"size:128;not null"`
	CategoryID  uint   `gorm:"not null"`
	SeriesID    *uint
	PublisherID uint `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category  Category  `gorm:"foreignKey:CategoryID"`
	Series    *Series   `gorm:"foreignKey:SeriesID"`
	Publisher Publisher `gorm:"foreignKey:PublisherID"`
}

// Rent is a row of the active-rentals ledger. A (user, book) pair holds at
// most one row; the composite unique index enforces it.
type Rent struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rent_user_book"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_rent_user_book;index"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null;index"`

	User User `gorm:"foreignKey:UserID"`
	Book Book `gorm:"foreignKey:BookID"`
}

// RentHistory is append-only: rows are closed, never deleted. It keeps no
// foreign keys so rows outlive the users and books they mention.
type RentHistory struct {
	ID          uint      `gorm:"primaryKey"`
	RentID      uint      `gorm:"not null;index"`
	UserID      uint      `gorm:"not null;index"`
	BookID      uint      `gorm:"not null;index"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	ClosedAt    *time.Time
	CloseReason string `gorm:"size:20"`
	CreatedAt   time.Time
}

func (RentHistory) TableName() string { return "rent_history" }

const (
	CloseReturned = "RETURNED"
	CloseExpired  = "EXPIRED"
	CloseSwept    = "SWEPT"
	CloseRemoved  = "REMOVED"
)

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Role{}, &User{},
		&Category{}, &Series{}, &Publisher{}, &Book{},
		&Rent{}, &RentHistory{},
	}
}
