// Package rental keeps the ledger of active rentals: it creates them,
// returns them and expires them lazily when the book is read.
package rental

import (
	"context"
	"errors"
	"time"

	"library_rental/pkg/errs"
	"library_rental/pkg/models"

	"gorm.io/gorm"
)

type Manager struct {
	db  *gorm.DB
	now func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(db *gorm.DB, opts ...Option) *Manager {
	m := &Manager{db: db, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RentedBook is a ledger row joined with the book it references.
type RentedBook struct {
	RentID    uint      `json:"rentId"`
	BookID    uint      `json:"bookId"`
	Title     string    `json:"bookName"`
	Author    string    `json:"author"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (m *Manager) today() time.Time {
	return dateOf(m.now())
}

func dateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// CreateRental opens a rental of bookID for userID ending term days from
// today. Both the user and the book must exist.
func (m *Manager) CreateRental(ctx context.Context, userID, bookID uint, term Term) (*models.Rent, error) {
	days, ok := term.Days()
	if !ok {
		return nil, errs.Invalid("unknown rent term %q", string(term))
	}

	today := m.today()
	rent := models.Rent{
		UserID:    userID,
		BookID:    bookID,
		StartDate: today,
		EndDate:   today.AddDate(0, 0, days),
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("user")
			}
			return err
		}

		var book models.Book
		if err := tx.Select("id").First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("book")
			}
			return err
		}

		if err := tx.Create(&rent).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.ErrDuplicateRental
			}
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return errs.NotFound("user or book")
			}
			return err
		}

		return tx.Create(&models.RentHistory{
			RentID:    rent.ID,
			UserID:    rent.UserID,
			BookID:    rent.BookID,
			StartDate: rent.StartDate,
			EndDate:   rent.EndDate,
		}).Error
	})
	if err != nil {
		return nil, errs.Storage("create rental", err)
	}
	return &rent, nil
}

// ExpireIfDue deletes the rental of bookID by userID when its end date is
// today or earlier and reports whether it did.
func (m *Manager) ExpireIfDue(ctx context.Context, userID, bookID uint) (bool, error) {
	today := m.today()
	expired := false

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rent models.Rent
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&rent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if dateOf(rent.EndDate).After(today) {
			return nil
		}

		if err := m.closeRents(tx, []uint{rent.ID}, models.CloseExpired); err != nil {
			return err
		}
		expired = true
		return nil
	})
	if err != nil {
		return false, errs.Storage("expire rental", err)
	}
	return expired, nil
}

// ResolveReadTarget picks the book userID is about to read. Without a
// requested book it falls back to the most recently created rental.
func (m *Manager) ResolveReadTarget(ctx context.Context, userID uint, requested *uint) (uint, error) {
	var rents []models.Rent
	err := m.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&rents).Error
	if err != nil {
		return 0, errs.Storage("list rentals", err)
	}
	if len(rents) == 0 {
		return 0, errs.ErrNoActiveRentals
	}

	bookID := rents[0].BookID
	if requested != nil {
		bookID = *requested
		if !rentsBook(rents, bookID) {
			return 0, errs.NotFound("rental")
		}
	}

	expired, err := m.ExpireIfDue(ctx, userID, bookID)
	if err != nil {
		return 0, err
	}
	if expired {
		return 0, errs.ErrRentalExpired
	}
	return bookID, nil
}

func rentsBook(rents []models.Rent, bookID uint) bool {
	for _, r := range rents {
		if r.BookID == bookID {
			return true
		}
	}
	return false
}

// ReadBook resolves the read target and loads the book shown on the
// reading page.
func (m *Manager) ReadBook(ctx context.Context, userID uint, requested *uint) (*models.Book, error) {
	bookID, err := m.ResolveReadTarget(ctx, userID, requested)
	if err != nil {
		return nil, err
	}

	var book models.Book
	if err := m.db.WithContext(ctx).First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("book")
		}
		return nil, errs.Storage("get book", err)
	}
	return &book, nil
}

// DeleteRental returns the book: the rental of bookID held by userID is
// removed. Other users' rentals of the same book are never touched.
func (m *Manager) DeleteRental(ctx context.Context, userID, bookID uint) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rent models.Rent
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&rent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("rental")
		}
		if err != nil {
			return err
		}
		return m.closeRents(tx, []uint{rent.ID}, models.CloseReturned)
	})
	return errs.Storage("delete rental", err)
}

// Rentals lists the active rentals of userID, newest first.
func (m *Manager) Rentals(ctx context.Context, userID uint) ([]RentedBook, error) {
	rows := []RentedBook{}
	err := m.db.WithContext(ctx).
		Table("rents").
		Select("rents.id AS rent_id, rents.book_id, books.title, books.author, rents.start_date, rents.end_date").
		Joins("JOIN books ON books.id = rents.book_id").
		Where("rents.user_id = ?", userID).
		Order("rents.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errs.Storage("list rentals", err)
	}
	return rows, nil
}

// SweepExpired deletes every rental that ended graceDays or more days ago.
func (m *Manager) SweepExpired(ctx context.Context, graceDays int) (int64, error) {
	cutoff := m.today().AddDate(0, 0, -graceDays)
	var swept int64

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Rent{}).Where("end_date <= ?", cutoff).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		swept = int64(len(ids))
		return m.closeRents(tx, ids, models.CloseSwept)
	})
	if err != nil {
		return 0, errs.Storage("sweep rentals", err)
	}
	return swept, nil
}

// closeRents deletes ledger rows and closes their history entries.
func (m *Manager) closeRents(tx *gorm.DB, ids []uint, reason string) error {
	now := m.now()
	err := tx.Model(&models.RentHistory{}).
		Where("rent_id IN ? AND closed_at IS NULL", ids).
		Updates(map[string]interface{}{"closed_at": now, "close_reason": reason}).Error
	if err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Rent{}).Error
}
