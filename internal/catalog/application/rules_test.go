package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"order-catalog/internal/catalog/domain"
)

func validFictionInput() CreateOrderInput {
	return CreateOrderInput{
		Title:         "The Long Voyage",
		Author:        "Jane Doe",
		ISBN:          "9781234567897",
		Category:      domain.CategoryFiction,
		Price:         25.00,
		PublishedDate: time.Now().UTC().AddDate(-1, 0, 0),
		StockQuantity: 5,
	}
}

func evaluate(t *testing.T, repo *MockOrderRepository, in CreateOrderInput) []string {
	t.Helper()

	engine := NewRuleEngine(repo, newTestLogger())
	failures, err := engine.Evaluate(context.Background(), &in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	fields := make([]string, len(failures))
	for i, f := range failures {
		fields[i] = f.Field
	}
	return fields
}

func TestRuleEngine_ValidRequestPasses(t *testing.T) {
	fields := evaluate(t, NewMockOrderRepository(), validFictionInput())
	if len(fields) != 0 {
		t.Errorf("expected no failures, got %v", fields)
	}
}

func TestRuleEngine_AccumulatesAcrossFields(t *testing.T) {
	in := validFictionInput()
	in.Title = ""
	in.Author = "J@ne"
	in.ISBN = "12345"

	fields := evaluate(t, NewMockOrderRepository(), in)

	want := []string{FieldTitle, FieldAuthor, FieldISBN}
	if len(fields) != len(want) {
		t.Fatalf("expected %d failures, got %v", len(want), fields)
	}
	for i, f := range want {
		if fields[i] != f {
			t.Errorf("expected failure %d on %s, got %s", i, f, fields[i])
		}
	}
}

func TestRuleEngine_CascadeStopsWithinField(t *testing.T) {
	// An empty title would also fail the inappropriate-content and keyword
	// rules; only the first failure of the chain may be reported
	in := validFictionInput()
	in.Title = ""

	fields := evaluate(t, NewMockOrderRepository(), in)

	if len(fields) != 1 || fields[0] != FieldTitle {
		t.Errorf("expected exactly one Title failure, got %v", fields)
	}
}

func TestRuleEngine_SyncFailureSkipsStoreChecks(t *testing.T) {
	repo := NewMockOrderRepository()
	in := validFictionInput()
	in.Price = -1

	fields := evaluate(t, repo, in)

	if len(fields) != 1 || fields[0] != FieldPrice {
		t.Errorf("expected exactly one Price failure, got %v", fields)
	}
	if repo.existsISBNCalls != 0 || repo.existsTitleCalls != 0 {
		t.Errorf("expected no store-backed checks, got isbn=%d title=%d",
			repo.existsISBNCalls, repo.existsTitleCalls)
	}
}

func TestRuleEngine_InappropriateTitle(t *testing.T) {
	in := validFictionInput()
	in.Title = "Some Inappropriate Story"

	fields := evaluate(t, NewMockOrderRepository(), in)

	if len(fields) != 1 || fields[0] != FieldTitle {
		t.Errorf("expected a Title failure, got %v", fields)
	}
}

func TestRuleEngine_CoverImageURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"empty url skips the rule", "", true},
		{"https jpg", "https://cdn.example.com/covers/a.jpg", true},
		{"http png uppercase", "http://cdn.example.com/covers/A.PNG", true},
		{"webp", "https://cdn.example.com/b.webp", true},
		{"relative path", "/covers/a.jpg", false},
		{"ftp scheme", "ftp://cdn.example.com/a.jpg", false},
		{"no image extension", "https://cdn.example.com/a.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validFictionInput()
			in.CoverImageURL = tt.url

			fields := evaluate(t, NewMockOrderRepository(), in)

			failed := len(fields) > 0
			if failed == tt.valid {
				t.Errorf("url %q: expected valid=%v, failures %v", tt.url, tt.valid, fields)
			}
		})
	}
}

func TestRuleEngine_CategoryConditionalRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *CreateOrderInput)
		wantField string
	}{
		{
			name: "technical title without keywords",
			mutate: func(in *CreateOrderInput) {
				in.Category = domain.CategoryTechnical
				in.Title = "An Everyday Tale"
			},
			wantField: FieldTitle,
		},
		{
			name: "technical published too long ago",
			mutate: func(in *CreateOrderInput) {
				in.Category = domain.CategoryTechnical
				in.Title = "API Design Guide"
				in.PublishedDate = time.Now().UTC().AddDate(-6, 0, 0)
			},
			wantField: FieldPublishedDate,
		},
		{
			name: "children price above ceiling",
			mutate: func(in *CreateOrderInput) {
				in.Category = domain.CategoryChildren
				in.Price = 55.00
			},
			wantField: FieldPrice,
		},
		{
			name: "children restricted word in title",
			mutate: func(in *CreateOrderInput) {
				in.Category = domain.CategoryChildren
				in.Title = "Tales of Violence"
			},
			wantField: FieldTitle,
		},
		{
			name: "fiction author too short",
			mutate: func(in *CreateOrderInput) {
				in.Category = domain.CategoryFiction
				in.Author = "Bo"
			},
			wantField: FieldAuthor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validFictionInput()
			tt.mutate(&in)

			fields := evaluate(t, NewMockOrderRepository(), in)

			if len(fields) != 1 || fields[0] != tt.wantField {
				t.Errorf("expected one %s failure, got %v", tt.wantField, fields)
			}
		})
	}
}

func TestRuleEngine_FieldBounds(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *CreateOrderInput)
		wantField string // empty means the request must pass
	}{
		{
			name:      "title at 200 characters passes",
			mutate:    func(in *CreateOrderInput) { in.Title = strings.Repeat("a", 200) },
			wantField: "",
		},
		{
			name:      "title at 201 characters fails",
			mutate:    func(in *CreateOrderInput) { in.Title = strings.Repeat("a", 201) },
			wantField: FieldTitle,
		},
		{
			name:      "price just below ceiling passes",
			mutate:    func(in *CreateOrderInput) { in.Price = 9999.99; in.StockQuantity = 20 },
			wantField: "",
		},
		{
			name:      "price at 10000 fails",
			mutate:    func(in *CreateOrderInput) { in.Price = 10000; in.StockQuantity = 20 },
			wantField: FieldPrice,
		},
		{
			name:      "zero stock passes",
			mutate:    func(in *CreateOrderInput) { in.StockQuantity = 0 },
			wantField: "",
		},
		{
			name:      "negative stock fails",
			mutate:    func(in *CreateOrderInput) { in.StockQuantity = -1 },
			wantField: FieldStockQuantity,
		},
		{
			name:      "stock at 100000 passes",
			mutate:    func(in *CreateOrderInput) { in.StockQuantity = 100000 },
			wantField: "",
		},
		{
			name:      "stock above 100000 fails",
			mutate:    func(in *CreateOrderInput) { in.StockQuantity = 100001 },
			wantField: FieldStockQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validFictionInput()
			tt.mutate(&in)

			fields := evaluate(t, NewMockOrderRepository(), in)

			if tt.wantField == "" {
				if len(fields) != 0 {
					t.Errorf("expected no failures, got %v", fields)
				}
				return
			}
			if len(fields) != 1 || fields[0] != tt.wantField {
				t.Errorf("expected one %s failure, got %v", tt.wantField, fields)
			}
		})
	}
}

func TestRuleEngine_ConditionalRulesIgnoredForOtherCategories(t *testing.T) {
	// A short fiction-only author limit must not apply to non-fiction
	in := validFictionInput()
	in.Category = domain.CategoryNonFiction
	in.Author = "Bo A"

	fields := evaluate(t, NewMockOrderRepository(), in)

	if len(fields) != 0 {
		t.Errorf("expected no failures, got %v", fields)
	}
}

func TestRuleEngine_CrossFieldStockCap(t *testing.T) {
	in := validFictionInput()
	in.Price = 150.00
	in.StockQuantity = 25

	fields := evaluate(t, NewMockOrderRepository(), in)

	if len(fields) != 1 || fields[0] != FieldRequest {
		t.Errorf("expected a cross-field failure, got %v", fields)
	}
}

func TestRuleEngine_PublishedDateBounds(t *testing.T) {
	in := validFictionInput()
	in.PublishedDate = time.Now().UTC().Add(48 * time.Hour)

	fields := evaluate(t, NewMockOrderRepository(), in)
	if len(fields) != 1 || fields[0] != FieldPublishedDate {
		t.Errorf("expected a PublishedDate failure for future date, got %v", fields)
	}

	in = validFictionInput()
	in.PublishedDate = time.Date(1399, 12, 31, 0, 0, 0, 0, time.UTC)

	fields = evaluate(t, NewMockOrderRepository(), in)
	if len(fields) != 1 || fields[0] != FieldPublishedDate {
		t.Errorf("expected a PublishedDate failure for year < 1400, got %v", fields)
	}
}

func TestRuleEngine_ISBNFormat(t *testing.T) {
	tests := []struct {
		isbn  string
		valid bool
	}{
		{"9781234567897", true},
		{"978-1-2345-6789-7", true},
		{"1112223334", true},
		{"123456789", false},
		{"97812345678901", false},
		{"", false},
	}

	for _, tt := range tests {
		in := validFictionInput()
		in.ISBN = tt.isbn

		fields := evaluate(t, NewMockOrderRepository(), in)

		failed := len(fields) > 0
		if failed == tt.valid {
			t.Errorf("isbn %q: expected valid=%v, failures %v", tt.isbn, tt.valid, fields)
		}
	}
}
