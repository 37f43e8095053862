package domain

import (
	"strings"
	"time"
	"unicode"
)

// Category classifies a catalog order
type Category string

const (
	CategoryFiction    Category = "Fiction"
	CategoryNonFiction Category = "NonFiction"
	CategoryTechnical  Category = "Technical"
	CategoryChildren   Category = "Children"
)

// Valid reports whether the category is one of the defined values
func (c Category) Valid() bool {
	switch c {
	case CategoryFiction, CategoryNonFiction, CategoryTechnical, CategoryChildren:
		return true
	}
	return false
}

// ParseCategory parses a category from its string form
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// Order represents a persisted catalog order (a book-like product)
type Order struct {
	ID            string
	Title         string
	Author        string
	ISBN          string
	Category      Category
	Price         float64
	PublishedDate time.Time
	CoverImageURL string
	StockQuantity int
	IsAvailable   bool
	CreatedAt     time.Time
}

// ISBNDigits strips everything but digits from an ISBN.
// Uniqueness and length checks operate on this normalized form.
func ISBNDigits(isbn string) string {
	var b strings.Builder
	for _, r := range isbn {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
