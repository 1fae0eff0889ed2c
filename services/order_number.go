package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"storefront-service/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderNumberGenerator derives the next sequential human-facing order number
// (e.g. TPL#007 -> TPL#008). The number is zero-padded to three digits and
// grows naturally past 999. Uniqueness is guaranteed by the unique index on
// orders.order_number; callers retry Next on a duplicate-key insert failure.
type OrderNumberGenerator struct {
	repo    repository.OrderRepository
	prefix  string
	pattern *regexp.Regexp
	now     func() time.Time
	logger  *zap.Logger
}

// NewOrderNumberGenerator creates a generator for the given prefix.
func NewOrderNumberGenerator(repo repository.OrderRepository, prefix string, logger *zap.Logger) *OrderNumberGenerator {
	return &OrderNumberGenerator{
		repo:    repo,
		prefix:  prefix,
		pattern: regexp.MustCompile(regexp.QuoteMeta(prefix) + `#(\d+)`),
		now:     time.Now,
		logger:  logger,
	}
}

// Next returns the next order number. When no prior order exists the sequence
// starts at 1; when the latest order cannot be read or parsed, a
// timestamp-derived 6-digit suffix is used so checkout never blocks on this.
func (g *OrderNumberGenerator) Next(ctx context.Context) string {
	latest, err := g.repo.FindLatest(ctx)
	if err != nil && err != gorm.ErrRecordNotFound {
		g.logger.Warn("Failed to fetch latest order, using fallback order number", zap.Error(err))
		return g.fallback()
	}

	next := 1
	if latest != nil {
		match := g.pattern.FindStringSubmatch(latest.OrderNumber)
		if match == nil {
			g.logger.Warn("Latest order number did not match expected pattern",
				zap.String("order_number", latest.OrderNumber),
			)
			return g.fallback()
		}
		n, convErr := strconv.Atoi(match[1])
		if convErr != nil {
			return g.fallback()
		}
		next = n + 1
	}

	return fmt.Sprintf("%s#%03d", g.prefix, next)
}

// fallback derives a number from the last six digits of the current
// millisecond timestamp.
func (g *OrderNumberGenerator) fallback() string {
	ms := strconv.FormatInt(g.now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("%s#%s", g.prefix, ms)
}
