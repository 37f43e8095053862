package application

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"order-catalog/internal/catalog/domain"
	"order-catalog/internal/catalog/ports"
	"order-catalog/pkg/errors"
	"order-catalog/pkg/logger"
)

// Field names used in validation failures
const (
	FieldTitle         = "Title"
	FieldAuthor        = "Author"
	FieldISBN          = "ISBN"
	FieldCategory      = "Category"
	FieldPrice         = "Price"
	FieldPublishedDate = "PublishedDate"
	FieldStockQuantity = "StockQuantity"
	FieldCoverImageURL = "CoverImageUrl"
	// FieldRequest tags cross-field failures that belong to no single field
	FieldRequest = "Request"
)

var (
	inappropriateWords = []string{"badword1", "badword2", "inappropriate"}

	restrictedChildrenWords = []string{"violence", "adult", "explicit"}

	technicalKeywords = []string{
		"guide", "tutorial", "programming", "api", "architecture",
		"design", "patterns", "algorithm", "framework",
	}

	allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	authorNamePattern = regexp.MustCompile(`^[\p{L} .'-]+$`)
)

// syncRule is a predicate rule attached to one request field. Rules for the
// same field form a chain with cascade-stop semantics: the first failure
// suppresses the rest of that field's chain.
type syncRule struct {
	field   string
	message string
	when    func(in *CreateOrderInput) bool // nil means always active
	check   func(in *CreateOrderInput) bool
}

// asyncRule is a store-backed rule. Async rules run only after every
// synchronous rule has passed.
type asyncRule struct {
	field   string
	message string
	check   func(ctx context.Context, in *CreateOrderInput) (bool, error)
}

// RuleEngine evaluates the ordered rule set against a create-order request.
type RuleEngine struct {
	repo ports.OrderRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewRuleEngine creates a rule engine backed by the given repository
func NewRuleEngine(repo ports.OrderRepository, log *logger.Logger) *RuleEngine {
	return &RuleEngine{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Evaluate runs every rule chain against the request and returns the
// accumulated failures in evaluation order. Independent fields all report
// their first failure; store-backed uniqueness rules run only when all
// synchronous rules pass. A non-nil error means a collaborator fault, not a
// validation failure.
func (e *RuleEngine) Evaluate(ctx context.Context, in *CreateOrderInput) ([]errors.FieldError, error) {
	var failures []errors.FieldError
	failed := make(map[string]bool)

	for _, r := range e.syncRules() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if failed[r.field] {
			continue
		}
		if r.when != nil && !r.when(in) {
			continue
		}
		if !r.check(in) {
			failed[r.field] = true
			failures = append(failures, errors.FieldError{Field: r.field, Message: r.message})
			e.log.WithContext(ctx).Warn("validation rule failed",
				zap.String("field", r.field),
				zap.String("reason", r.message),
			)
		}
	}

	if len(failures) > 0 {
		return failures, nil
	}

	for _, r := range e.asyncRules() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if failed[r.field] {
			continue
		}
		e.log.WithContext(ctx).Info("checking store-backed rule",
			zap.String("field", r.field),
		)
		ok, err := r.check(ctx, in)
		if err != nil {
			return nil, err
		}
		if !ok {
			failed[r.field] = true
			failures = append(failures, errors.FieldError{Field: r.field, Message: r.message})
			e.log.WithContext(ctx).Warn("validation rule failed",
				zap.String("field", r.field),
				zap.String("reason", r.message),
			)
		}
	}

	return failures, nil
}

func (e *RuleEngine) syncRules() []syncRule {
	return []syncRule{
		// Title
		{
			field: FieldTitle, message: "Title is required.",
			check: func(in *CreateOrderInput) bool { return strings.TrimSpace(in.Title) != "" },
		},
		{
			field: FieldTitle, message: "Title cannot exceed 200 characters.",
			check: func(in *CreateOrderInput) bool { return utf8.RuneCountInString(in.Title) <= 200 },
		},
		{
			field: FieldTitle, message: "Title contains inappropriate content.",
			check: func(in *CreateOrderInput) bool { return !containsAny(in.Title, inappropriateWords) },
		},

		// Author
		{
			field: FieldAuthor, message: "Author is required.",
			check: func(in *CreateOrderInput) bool { return strings.TrimSpace(in.Author) != "" },
		},
		{
			field: FieldAuthor, message: "Author must be at least 2 characters.",
			check: func(in *CreateOrderInput) bool { return utf8.RuneCountInString(in.Author) >= 2 },
		},
		{
			field: FieldAuthor, message: "Author cannot exceed 100 characters.",
			check: func(in *CreateOrderInput) bool { return utf8.RuneCountInString(in.Author) <= 100 },
		},
		{
			field: FieldAuthor, message: "Author name contains invalid characters.",
			check: func(in *CreateOrderInput) bool { return authorNamePattern.MatchString(in.Author) },
		},

		// ISBN
		{
			field: FieldISBN, message: "ISBN is required.",
			check: func(in *CreateOrderInput) bool { return strings.TrimSpace(in.ISBN) != "" },
		},
		{
			field: FieldISBN, message: "ISBN must be a valid 10- or 13-digit ISBN (hyphens allowed).",
			check: func(in *CreateOrderInput) bool {
				n := len(domain.ISBNDigits(in.ISBN))
				return n == 10 || n == 13
			},
		},

		// Category
		{
			field: FieldCategory, message: "Category must be a valid value.",
			check: func(in *CreateOrderInput) bool { return in.Category.Valid() },
		},

		// Price
		{
			field: FieldPrice, message: "Price must be greater than 0.",
			check: func(in *CreateOrderInput) bool { return in.Price > 0 },
		},
		{
			field: FieldPrice, message: "Price must be less than 10,000.",
			check: func(in *CreateOrderInput) bool { return in.Price < 10000 },
		},

		// PublishedDate
		{
			field: FieldPublishedDate, message: "Published date cannot be in the future.",
			check: func(in *CreateOrderInput) bool { return !in.PublishedDate.After(e.now().UTC()) },
		},
		{
			field: FieldPublishedDate, message: "Published date cannot be before year 1400.",
			check: func(in *CreateOrderInput) bool { return in.PublishedDate.Year() >= 1400 },
		},

		// StockQuantity
		{
			field: FieldStockQuantity, message: "StockQuantity cannot be negative.",
			check: func(in *CreateOrderInput) bool { return in.StockQuantity >= 0 },
		},
		{
			field: FieldStockQuantity, message: "StockQuantity cannot exceed 100000.",
			check: func(in *CreateOrderInput) bool { return in.StockQuantity <= 100000 },
		},

		// CoverImageUrl, only checked when present
		{
			field: FieldCoverImageURL, message: "CoverImageUrl must be a valid HTTP/HTTPS image URL with an accepted extension.",
			when:  func(in *CreateOrderInput) bool { return strings.TrimSpace(in.CoverImageURL) != "" },
			check: func(in *CreateOrderInput) bool { return isValidImageURL(in.CoverImageURL) },
		},

		// Technical orders
		{
			field: FieldPrice, message: "Technical orders must have a minimum price of $20.00.",
			when:  categoryIs(domain.CategoryTechnical),
			check: func(in *CreateOrderInput) bool { return in.Price >= 20 },
		},
		{
			field: FieldTitle, message: "Technical orders must contain technical keywords in the title.",
			when:  categoryIs(domain.CategoryTechnical),
			check: func(in *CreateOrderInput) bool { return containsAny(in.Title, technicalKeywords) },
		},
		{
			field: FieldPublishedDate, message: "Technical orders must be published within the last 5 years.",
			when:  categoryIs(domain.CategoryTechnical),
			check: func(in *CreateOrderInput) bool {
				return !in.PublishedDate.Before(e.now().UTC().AddDate(-5, 0, 0))
			},
		},

		// Children's orders
		{
			field: FieldPrice, message: "Children's orders must have a maximum price of $50.00.",
			when:  categoryIs(domain.CategoryChildren),
			check: func(in *CreateOrderInput) bool { return in.Price <= 50 },
		},
		{
			field: FieldTitle, message: "Title contains content not appropriate for children.",
			when:  categoryIs(domain.CategoryChildren),
			check: func(in *CreateOrderInput) bool { return !containsAny(in.Title, restrictedChildrenWords) },
		},

		// Fiction orders
		{
			field: FieldAuthor, message: "Fiction authors must be at least 5 characters (full name required).",
			when:  categoryIs(domain.CategoryFiction),
			check: func(in *CreateOrderInput) bool { return utf8.RuneCountInString(in.Author) >= 5 },
		},

		// Cross-field
		{
			field: FieldRequest, message: "Expensive orders (>$100) must have stock <= 20 units.",
			check: func(in *CreateOrderInput) bool {
				return !(in.Price > 100) || in.StockQuantity <= 20
			},
		},
	}
}

func (e *RuleEngine) asyncRules() []asyncRule {
	return []asyncRule{
		{
			field: FieldTitle, message: "Title must be unique for the same author.",
			check: func(ctx context.Context, in *CreateOrderInput) (bool, error) {
				exists, err := e.repo.ExistsByTitleAuthor(ctx, in.Title, in.Author)
				return !exists, err
			},
		},
		{
			field: FieldISBN, message: "ISBN must be unique in the system.",
			check: func(ctx context.Context, in *CreateOrderInput) (bool, error) {
				exists, err := e.repo.ExistsByISBNDigits(ctx, domain.ISBNDigits(in.ISBN))
				return !exists, err
			},
		},
	}
}

func categoryIs(c domain.Category) func(in *CreateOrderInput) bool {
	return func(in *CreateOrderInput) bool { return in.Category == c }
}

func containsAny(s string, words []string) bool {
	lowered := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lowered, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func isValidImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range allowedImageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
