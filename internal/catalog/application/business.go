package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"order-catalog/internal/catalog/domain"
	"order-catalog/internal/catalog/ports"
	"order-catalog/pkg/logger"
)

// Business-rule rejection reasons. These are recorded in metrics and logs;
// callers only see the generic policy message.
const (
	ReasonDailyLimitReached  = "daily limit reached"
	ReasonTechnicalMinPrice  = "technical order below minimum price"
	ReasonChildrenRestricted = "children's title contains restricted word"
	ReasonHighValueStock     = "high-value order stock exceeds limit"
)

// BusinessPolicyMessage is the single message surfaced to callers when any
// business rule rejects the request.
const BusinessPolicyMessage = "Order does not satisfy business rules."

// BusinessRulePolicy is the final, store-dependent acceptance gate. It runs
// only after every field-level rule has passed and stops at the first
// failing rule.
type BusinessRulePolicy struct {
	repo       ports.OrderRepository
	log        *logger.Logger
	now        func() time.Time
	dailyLimit int
}

// NewBusinessRulePolicy creates a policy with the given daily creation cap
func NewBusinessRulePolicy(repo ports.OrderRepository, dailyLimit int, log *logger.Logger) *BusinessRulePolicy {
	return &BusinessRulePolicy{
		repo:       repo,
		log:        log,
		now:        time.Now,
		dailyLimit: dailyLimit,
	}
}

// Check evaluates the business rules in order. It returns the rejection
// reason of the first failing rule, or "" when all rules pass. A non-nil
// error means a repository fault.
func (p *BusinessRulePolicy) Check(ctx context.Context, in *CreateOrderInput) (string, error) {
	// Rule 1: daily creation cap
	now := p.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := p.repo.CountCreatedSince(ctx, startOfDay)
	if err != nil {
		return "", err
	}
	p.log.WithContext(ctx).Info("business rule: today's order count",
		zap.Int64("count", count),
	)
	if count >= int64(p.dailyLimit) {
		p.log.WithContext(ctx).Warn("business rule failed: daily limit reached",
			zap.Int64("count", count),
			zap.Int("limit", p.dailyLimit),
		)
		return ReasonDailyLimitReached, nil
	}

	// Rule 2: technical orders minimum price
	if in.Category == domain.CategoryTechnical && in.Price < 20 {
		p.log.WithContext(ctx).Warn("business rule failed: technical order below minimum price",
			zap.Float64("price", in.Price),
		)
		return ReasonTechnicalMinPrice, nil
	}

	// Rule 3: children's content restrictions
	if in.Category == domain.CategoryChildren && containsAny(in.Title, restrictedChildrenWords) {
		p.log.WithContext(ctx).Warn("business rule failed: children's title contains restricted word",
			zap.String("title", in.Title),
		)
		return ReasonChildrenRestricted, nil
	}

	// Rule 4: high-value order stock cap
	if in.Price > 500 && in.StockQuantity > 10 {
		p.log.WithContext(ctx).Warn("business rule failed: high-value order stock exceeds limit",
			zap.Float64("price", in.Price),
			zap.Int("stock", in.StockQuantity),
		)
		return ReasonHighValueStock, nil
	}

	p.log.WithContext(ctx).Info("all business rules passed",
		zap.String("title", in.Title),
		zap.String("isbn", in.ISBN),
	)
	return "", nil
}
