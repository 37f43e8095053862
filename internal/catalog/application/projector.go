package application

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"order-catalog/internal/catalog/domain"
)

// OrderProfile is the response projection of a persisted order. Derived
// fields are computed at projection time and never stored.
type OrderProfile struct {
	ID                  string          `json:"Id"`
	Title               string          `json:"Title"`
	Author              string          `json:"Author"`
	ISBN                string          `json:"ISBN"`
	Category            domain.Category `json:"Category"`
	Price               float64         `json:"Price"`
	FormattedPrice      string          `json:"FormattedPrice"`
	CoverImageURL       *string         `json:"CoverImageUrl"`
	CategoryDisplayName string          `json:"CategoryDisplayName"`
	PublishedAge        string          `json:"PublishedAge"`
	AuthorInitials      string          `json:"AuthorInitials"`
	AvailabilityStatus  string          `json:"AvailabilityStatus"`
	StockQuantity       int             `json:"StockQuantity"`
}

// ToOrder maps a validated request into a persistable entity
func ToOrder(in *CreateOrderInput, id string, now time.Time) *domain.Order {
	return &domain.Order{
		ID:            id,
		Title:         in.Title,
		Author:        in.Author,
		ISBN:          in.ISBN,
		Category:      in.Category,
		Price:         in.Price,
		PublishedDate: in.PublishedDate,
		CoverImageURL: in.CoverImageURL,
		StockQuantity: in.StockQuantity,
		IsAvailable:   in.StockQuantity > 0,
		CreatedAt:     now,
	}
}

// ToProfile maps a persisted order into its response projection. It is a
// pure function of the order and the given reference time.
func ToProfile(o *domain.Order, now time.Time) *OrderProfile {
	price := DisplayPrice(o.Category, o.Price)

	return &OrderProfile{
		ID:                  o.ID,
		Title:               o.Title,
		Author:              o.Author,
		ISBN:                o.ISBN,
		Category:            o.Category,
		Price:               price,
		FormattedPrice:      FormatPrice(price),
		CoverImageURL:       resolveCoverImageURL(o),
		CategoryDisplayName: CategoryDisplayName(o.Category),
		PublishedAge:        PublishedAge(o.PublishedDate, now),
		AuthorInitials:      AuthorInitials(o.Author),
		AvailabilityStatus:  AvailabilityStatus(o.IsAvailable, o.StockQuantity),
		StockQuantity:       o.StockQuantity,
	}
}

// DisplayPrice applies the category price adjustment. Children's orders get
// a 10% discount; every other category passes through unchanged.
func DisplayPrice(category domain.Category, price float64) float64 {
	if category == domain.CategoryChildren {
		return price * 0.9
	}
	return price
}

var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a price as a locale-formatted currency string
func FormatPrice(price float64) string {
	return pricePrinter.Sprint(currency.Symbol(currency.USD.Amount(price)))
}

// resolveCoverImageURL nulls the cover image for children's orders
func resolveCoverImageURL(o *domain.Order) *string {
	if o.Category == domain.CategoryChildren || o.CoverImageURL == "" {
		return nil
	}
	u := o.CoverImageURL
	return &u
}

// CategoryDisplayName resolves the human-readable category label
func CategoryDisplayName(category domain.Category) string {
	switch category {
	case domain.CategoryFiction:
		return "Fiction & Literature"
	case domain.CategoryNonFiction:
		return "Non-Fiction"
	case domain.CategoryTechnical:
		return "Technical & Professional"
	case domain.CategoryChildren:
		return "Children's Orders"
	default:
		return "Uncategorized"
	}
}

// PublishedAge buckets the order's age into a display string
func PublishedAge(published, now time.Time) string {
	days := now.Sub(published).Hours() / 24

	if days < 30 {
		return "New Release"
	}
	if days < 365 {
		months := int(days / 30)
		return fmt.Sprintf("%d %s old", months, plural(months, "month"))
	}
	if days < 1825 {
		years := int(days / 365)
		return fmt.Sprintf("%d %s old", years, plural(years, "year"))
	}
	return "Classic"
}

// AuthorInitials derives display initials from the author name: first
// letter of the first and last tokens, or "?" when empty
func AuthorInitials(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return "?"
	}

	parts := strings.Fields(author)
	if len(parts) == 1 {
		return string(unicode.ToUpper(firstRune(parts[0])))
	}

	first := unicode.ToUpper(firstRune(parts[0]))
	last := unicode.ToUpper(firstRune(parts[len(parts)-1]))
	return string(first) + string(last)
}

// AvailabilityStatus resolves the stock display tier
func AvailabilityStatus(isAvailable bool, quantity int) string {
	if !isAvailable {
		return "Out of Stock"
	}
	switch {
	case quantity == 0:
		return "Unavailable"
	case quantity == 1:
		return "Last Copy"
	case quantity <= 5:
		return "Limited Stock"
	default:
		return "In Stock"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}
