package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ops-portal/configs"
	"ops-portal/internal/cache"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

const (
	dashboardCacheKey = "dashboard:overview"
	dashboardCacheTTL = time.Minute
)

// DashboardSvc is an implementation of the service.DashboardService interface
type DashboardSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
	cache  *cache.Cache
}

// NewDashboardService creates a new DashboardSvc
func NewDashboardService(deps Dependencies) *DashboardSvc {
	return &DashboardSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
		cache:  deps.Cache,
	}
}

// GetOverview builds the portal landing-page counters, cached briefly. Owed
// totals are grouped by currency; the dashboard never mixes currencies.
func (s *DashboardSvc) GetOverview(ctx context.Context) (map[string]interface{}, error) {
	return cache.GetOrSet(ctx, s.cache, dashboardCacheKey, dashboardCacheTTL, func() (map[string]interface{}, error) {
		return s.buildOverview(ctx)
	})
}

func (s *DashboardSvc) buildOverview(ctx context.Context) (map[string]interface{}, error) {
	now := time.Now()

	taskCounts, err := s.repos.Task.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	assetCounts, err := s.repos.Asset.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets: %w", err)
	}

	unread, err := s.repos.Notification.CountUnreadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	payments, err := s.repos.Payment.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get open payments: %w", err)
	}

	dueCount, overdueCount := 0, 0
	dueTotals := make(map[string]decimal.Decimal)
	overdueTotals := make(map[string]decimal.Decimal)

	for _, payment := range payments {
		switch models.DeriveStatus(payment, now) {
		case models.EffectiveDue:
			dueCount++
			dueTotals[payment.Currency] = dueTotals[payment.Currency].Add(models.AmountDue(payment, now))
		case models.EffectiveOverdue:
			overdueCount++
			overdueTotals[payment.Currency] = overdueTotals[payment.Currency].Add(models.AmountDue(payment, now))
		}
	}

	openTasks := taskCounts[models.TaskStatusTodo] + taskCounts[models.TaskStatusInProgress]

	overview := map[string]interface{}{
		"generated_at": now.Format(time.RFC3339),
		"tasks": map[string]interface{}{
			"open":      openTasks,
			"by_status": taskCounts,
		},
		"payments": map[string]interface{}{
			"open":           len(payments),
			"due":            dueCount,
			"overdue":        overdueCount,
			"due_totals":     dueTotals,
			"overdue_totals": overdueTotals,
		},
		"assets": map[string]interface{}{
			"by_status": assetCounts,
		},
		"notifications": map[string]interface{}{
			"unread": unread,
		},
	}

	s.logger.Debugf("Dashboard overview rebuilt: %d open payments, %d open tasks", len(payments), openTasks)

	return overview, nil
}
