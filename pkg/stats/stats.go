// Package stats aggregates rentals into per-book counts, popularity ranks
// and the CSV export used by the librarians' spreadsheets.
package stats

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"library_rental/pkg/errs"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gorm.io/gorm"
)

// Source selects which table is counted.
type Source string

const (
	// SourceActive counts ledger rows, i.e. rentals open right now.
	SourceActive Source = "active"
	// SourceHistory counts every rental ever created.
	SourceHistory Source = "history"
)

func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceActive, SourceHistory:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown stats source %q", s)
}

func (s Source) table() string {
	if s == SourceHistory {
		return "rent_history"
	}
	return "rents"
}

const (
	ExportFilename    = "rent_stats_export.csv"
	ExportContentType = "text/csv; charset=windows-1251"
)

type RentCount struct {
	BookID    uint   `json:"id_book"`
	Title     string `json:"book_name"`
	Author    string `json:"author"`
	RentCount int64  `json:"rent_count"`
}

type RankedBook struct {
	Rank      int    `json:"rank"`
	Title     string `json:"book_name"`
	Author    string `json:"author"`
	RentCount int64  `json:"rent_count"`
}

type Engine struct {
	db     *gorm.DB
	source Source
}

func NewEngine(db *gorm.DB, source Source) *Engine {
	if source == "" {
		source = SourceActive
	}
	return &Engine{db: db, source: source}
}

func (e *Engine) Source() Source { return e.source }

// RentCounts returns the number of rentals per book, books without any
// rental omitted.
func (e *Engine) RentCounts(ctx context.Context) ([]RentCount, error) {
	rows := []RentCount{}
	err := e.db.WithContext(ctx).
		Table("books").
		Select("books.id AS book_id, books.title, books.author, COUNT(r.id) AS rent_count").
		Joins("JOIN " + e.source.table() + " r ON r.book_id = books.id").
		Group("books.id, books.title, books.author").
		Order("books.id").
		Scan(&rows).Error
	if err != nil {
		return nil, errs.Storage("rent counts", err)
	}
	return rows, nil
}

func (e *Engine) RankedPopularity(ctx context.Context) ([]RankedBook, error) {
	counts, err := e.RentCounts(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(counts), nil
}

// Rank orders counts by rent count descending, title ascending, and assigns
// dense ranks: equal counts share a rank, the next count gets rank+1.
func Rank(counts []RentCount) []RankedBook {
	sorted := make([]RentCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].RentCount != sorted[j].RentCount {
			return sorted[i].RentCount > sorted[j].RentCount
		}
		return sorted[i].Title < sorted[j].Title
	})

	ranked := make([]RankedBook, 0, len(sorted))
	rank := 0
	var last int64
	for i, c := range sorted {
		if i == 0 || c.RentCount != last {
			rank++
			last = c.RentCount
		}
		ranked = append(ranked, RankedBook{
			Rank:      rank,
			Title:     c.Title,
			Author:    c.Author,
			RentCount: c.RentCount,
		})
	}
	return ranked
}

func (e *Engine) ExportCSV(ctx context.Context) ([]byte, error) {
	counts, err := e.RentCounts(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, counts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes counts as ';'-separated Windows-1251 text. Characters the
// code page cannot represent become '?'.
func WriteCSV(w io.Writer, counts []RentCount) error {
	tw := transform.NewWriter(w, charmap.Windows1251.NewEncoder())

	cw := csv.NewWriter(tw)
	cw.Comma = ';'
	if err := cw.Write([]string{"book_name", "author", "rent_count"}); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{representable(c.Title), representable(c.Author), strconv.FormatInt(c.RentCount, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}

func representable(s string) string {
	return strings.Map(func(r rune) rune {
		if _, ok := charmap.Windows1251.EncodeRune(r); !ok {
			return '?'
		}
		return r
	}, s)
}
