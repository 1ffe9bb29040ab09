/*
scheduler.go - Contract alert sweep

PURPOSE:
  Periodically projects the contract of every staff resource of every
  tenant and keeps the ones that need attention (rent renewal within five
  days or overdue, pack with two presences or less left).

DESIGN:
  - Runs until its context is cancelled (driven by the server's errgroup)
  - Sweeps immediately on start, then on every tick
  - Each sweep replaces the previous result; reads never block a sweep

CONFIGURATION:
  - scheduler.enabled / scheduler.interval (default: 1 hour)

USAGE:
  alerts := NewContractAlertScheduler(engine, store, time.Hour, logger)
  g.Go(func() error { return alerts.Run(ctx) })

SEE ALSO:
  - handlers.go: ListAlerts endpoint
  - studio/contract.go: DescribeContractStatus
*/
package api

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/warp/studio-engine/booking"
	"github.com/warp/studio-engine/studio"
)

// ContractAlert is one staff resource whose contract needs attention.
type ContractAlert struct {
	TenantID  string
	StaffID   string
	StaffName string
	Status    studio.ContractStatus
	CheckedAt time.Time
}

// ContractAlertScheduler keeps the latest contract alerts per tenant.
type ContractAlertScheduler struct {
	engine   *booking.Engine
	tenants  studio.TenantLister
	interval time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	alerts map[string][]ContractAlert
}

// NewContractAlertScheduler creates a new scheduler.
func NewContractAlertScheduler(engine *booking.Engine, tenants studio.TenantLister, interval time.Duration, logger *slog.Logger) *ContractAlertScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractAlertScheduler{
		engine:   engine,
		tenants:  tenants,
		interval: interval,
		logger:   logger.With("component", "alerts"),
		alerts:   make(map[string][]ContractAlert),
	}
}

// Run sweeps on start and then every interval until ctx is done.
func (s *ContractAlertScheduler) Run(ctx context.Context) error {
	s.logger.Info("contract alert scheduler started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			s.logger.Info("contract alert scheduler stopped")
			return nil
		}
	}
}

// CheckNow runs one sweep and returns the number of alerts found.
func (s *ContractAlertScheduler) CheckNow(ctx context.Context) (int, error) {
	found, err := s.collect(ctx)
	if err != nil {
		return 0, err
	}
	s.store(found)

	total := 0
	for _, list := range found {
		total += len(list)
	}
	return total, nil
}

// Alerts returns the latest alerts for tenantID, staff name order.
func (s *ContractAlertScheduler) Alerts(tenantID string) []ContractAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.alerts[tenantID]
	out := make([]ContractAlert, len(list))
	copy(out, list)
	return out
}

func (s *ContractAlertScheduler) sweep(ctx context.Context) {
	n, err := s.CheckNow(ctx)
	if err != nil {
		s.logger.Error("contract alert sweep failed", "error", err)
		return
	}
	s.logger.Info("contract alert sweep completed", "alerts", n)
}

func (s *ContractAlertScheduler) collect(ctx context.Context) (map[string][]ContractAlert, error) {
	tenants, err := s.tenants.ListTenants(ctx)
	if err != nil {
		return nil, err
	}

	now := s.engine.Now()
	found := make(map[string][]ContractAlert, len(tenants))
	for _, tenantID := range tenants {
		staff, err := s.engine.ListStaff(ctx, tenantID)
		if err != nil {
			s.logger.Warn("listing staff failed", "tenant_id", tenantID, "error", err)
			continue
		}

		for _, res := range staff {
			status := studio.DescribeContractStatus(res, now)
			if !status.NeedsAttention() {
				continue
			}
			found[tenantID] = append(found[tenantID], ContractAlert{
				TenantID:  tenantID,
				StaffID:   res.ID,
				StaffName: res.Name,
				Status:    status,
				CheckedAt: now,
			})
		}
		sort.SliceStable(found[tenantID], func(i, j int) bool {
			return found[tenantID][i].StaffName < found[tenantID][j].StaffName
		})
	}
	return found, nil
}

func (s *ContractAlertScheduler) store(found map[string][]ContractAlert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = found
}
