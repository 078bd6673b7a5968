// Package catalog manages books and the category, series and publisher
// records they reference.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"library_rental/pkg/database"
	"library_rental/pkg/errs"
	"library_rental/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const conflictRetries = 3

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

type BookInput struct {
	Title     string `json:"nameBook" form:"nameBook"`
	Author    string `json:"author" form:"author"`
	Category  string `json:"category" form:"category"`
	Series    string `json:"seria" form:"seria"`
	Publisher string `json:"publisher" form:"publisher"`
}

func (in BookInput) normalized() (BookInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Category = strings.TrimSpace(in.Category)
	in.Series = strings.TrimSpace(in.Series)
	in.Publisher = strings.TrimSpace(in.Publisher)

	switch {
	case in.Title == "":
		return in, errs.Invalid("book title is required")
	case in.Author == "":
		return in, errs.Invalid("author is required")
	case in.Category == "":
		return in, errs.Invalid("category is required")
	case in.Publisher == "":
		return in, errs.Invalid("publisher is required")
	}
	return in, nil
}

type Page[T any] struct {
	Page          int   `json:"page"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	Items         []T   `json:"items"`
}

func (s *Store) AddBook(ctx context.Context, in BookInput) (*models.Book, error) {
	in, err := in.normalized()
	if err != nil {
		return nil, err
	}

	var book models.Book
	err = database.Retry(conflictRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			refs, err := resolveRefs(tx, in)
			if err != nil {
				return err
			}
			book = models.Book{
				Title:       in.Title,
				Author:      in.Author,
				CategoryID:  refs.category.ID,
				SeriesID:    refs.seriesID(),
				PublisherID: refs.publisher.ID,
			}
			return tx.Create(&book).Error
		})
	})
	if err != nil {
		return nil, errs.Storage("add book", err)
	}
	return s.GetBook(ctx, book.ID)
}

func (s *Store) EditBook(ctx context.Context, id uint, in BookInput) (*models.Book, error) {
	in, err := in.normalized()
	if err != nil {
		return nil, err
	}

	err = database.Retry(conflictRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var book models.Book
			if err := tx.First(&book, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.NotFound("book")
				}
				return err
			}
			refs, err := resolveRefs(tx, in)
			if err != nil {
				return err
			}
			return tx.Model(&book).Updates(map[string]interface{}{
				"title":        in.Title,
				"author":       in.Author,
				"category_id":  refs.category.ID,
				"series_id":    refs.seriesID(),
				"publisher_id": refs.publisher.ID,
			}).Error
		})
	})
	if err != nil {
		return nil, errs.Storage("edit book", err)
	}
	return s.GetBook(ctx, id)
}

// DeleteBook removes the book together with its active rentals. Their
// history rows are closed, not deleted.
func (s *Store) DeleteBook(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		if err := tx.Model(&models.RentHistory{}).
			Where("book_id = ? AND closed_at IS NULL", id).
			Updates(map[string]interface{}{"closed_at": now, "close_reason": models.CloseRemoved}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&models.Rent{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Book{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("book")
		}
		return nil
	})
	return errs.Storage("delete book", err)
}

func (s *Store) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := s.db.WithContext(ctx).
		Preload("Category").Preload("Series").Preload("Publisher").
		First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("book")
		}
		return nil, errs.Storage("get book", err)
	}
	return &book, nil
}

// ListBooks is the public catalog page; title filters by a
// case-insensitive substring.
func (s *Store) ListBooks(ctx context.Context, page, size int, title string) (Page[models.Book], error) {
	title = strings.TrimSpace(title)
	return paginate[models.Book](s.db.WithContext(ctx), page, size, func(q *gorm.DB) *gorm.DB {
		if title != "" {
			q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
		}
		return q
	}, nil)
}

func (s *Store) ManageBooks(ctx context.Context, page, size int) (Page[models.Book], error) {
	return paginate[models.Book](s.db.WithContext(ctx), page, size, nil, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Category").Preload("Series").Preload("Publisher")
	})
}

// paginate counts and loads one page. filter applies to both queries,
// preload only to the page query.
func paginate[T any](db *gorm.DB, page, size int, filter, preload func(*gorm.DB) *gorm.DB) (Page[T], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	scoped := func() *gorm.DB {
		q := db.Model(new(T))
		if filter != nil {
			q = filter(q)
		}
		return q
	}

	result := Page[T]{Page: page, PageSize: size, Items: []T{}}
	if err := scoped().Count(&result.TotalElements).Error; err != nil {
		return result, errs.Storage("count", err)
	}
	query := scoped()
	if preload != nil {
		query = preload(query)
	}
	offset := (page - 1) * size
	if err := query.Order("id").Offset(offset).Limit(size).Find(&result.Items).Error; err != nil {
		return result, errs.Storage("list", err)
	}
	return result, nil
}

type refs struct {
	category  models.Category
	series    *models.Series
	publisher models.Publisher
}

func (r refs) seriesID() *uint {
	if r.series == nil {
		return nil
	}
	return &r.series.ID
}

func resolveRefs(tx *gorm.DB, in BookInput) (refs, error) {
	var r refs
	category, err := LookupOrCreateCategory(tx, in.Category)
	if err != nil {
		return r, err
	}
	r.category = *category

	if in.Series != "" {
		r.series, err = LookupOrCreateSeries(tx, in.Series)
		if err != nil {
			return r, err
		}
	}

	publisher, err := LookupOrCreatePublisher(tx, in.Publisher)
	if err != nil {
		return r, err
	}
	r.publisher = *publisher
	return r, nil
}

func LookupOrCreateCategory(tx *gorm.DB, name string) (*models.Category, error) {
	return lookupOrCreate(tx, &models.Category{Name: name})
}

func LookupOrCreateSeries(tx *gorm.DB, name string) (*models.Series, error) {
	return lookupOrCreate(tx, &models.Series{Name: name})
}

func LookupOrCreatePublisher(tx *gorm.DB, name string) (*models.Publisher, error) {
	return lookupOrCreate(tx, &models.Publisher{Name: name})
}

type named interface {
	models.Category | models.Series | models.Publisher
}

// lookupOrCreate inserts row unless its name is taken, then loads
// whichever row holds the name.
func lookupOrCreate[T named](tx *gorm.DB, row *T) (*T, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return nil, err
	}
	var found T
	if err := tx.Where("name = ?", nameOf(row)).First(&found).Error; err != nil {
		return nil, err
	}
	return &found, nil
}

func nameOf[T named](row *T) string {
	switch r := any(row).(type) {
	case *models.Category:
		return r.Name
	case *models.Series:
		return r.Name
	case *models.Publisher:
		return r.Name
	}
	return ""
}
