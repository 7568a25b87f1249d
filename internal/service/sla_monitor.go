package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errBreachStale rolls back a breach whose deadline was extended after the candidate was loaded
var errBreachStale = errors.New("deadline no longer passed")

// SLAMonitor detects work orders that passed their SLA deadline
type SLAMonitor struct {
	core
}

func NewSLAMonitor(deps Deps) *SLAMonitor {
	return &SLAMonitor{core: newCore(deps)}
}

// Scan marks every overdue order as breached and records one SlaBreach event per
// breach episode. It returns the number of new breaches. Scans are idempotent: an
// order already in breach is skipped until its deadline is extended.
func (m *SLAMonitor) Scan(ctx context.Context) (int, error) {
	candidates, err := m.store.Repos().WorkOrders.ListSLACandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load SLA candidates: %w", err)
	}

	now := m.now()
	breached := 0
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return breached, err
		}
		wo := &candidates[i]
		if wo.SLADeadline == nil || !now.After(*wo.SLADeadline) {
			continue
		}

		started, err := m.markBreached(ctx, wo.ID, now)
		if err != nil {
			m.logger.Error("failed to mark SLA breach",
				zap.String("work_order_id", wo.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if started {
			breached++
		}
	}

	if breached > 0 {
		m.notifier.Kick()
		m.logger.Info("SLA scan finished", zap.Int("breached", breached), zap.Int("candidates", len(candidates)))
	}
	return breached, nil
}

// markBreached runs one conditional update. It does not take command locks, so the
// row is re-read after the update to make sure no concurrent extension moved the deadline.
func (m *SLAMonitor) markBreached(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	started := false
	err := m.store.Atomic(ctx, nil, func(r *repository.Repositories) error {
		ok, err := r.WorkOrders.MarkBreached(ctx, id, now)
		if err != nil {
			return fmt.Errorf("failed to mark breach: %w", err)
		}
		if !ok {
			return nil
		}

		wo, err := r.WorkOrders.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload work order: %w", err)
		}
		if wo.SLADeadline == nil || !now.After(*wo.SLADeadline) {
			return errBreachStale
		}

		woID := wo.ID
		err = m.record(ctx, r, domain.SystemActor(), event{
			Type:        domain.EventSlaBreach,
			EntityType:  domain.EntityTypeWorkOrder,
			EntityID:    wo.ID,
			WorkOrderID: &woID,
			VendorID:    wo.AssignedVendorID,
			Severity:    domain.SeverityError,
			Title:       "SLA breached",
			Message:     fmt.Sprintf("%s passed its SLA deadline while %s", wo.Title, statusLabel(wo.Status)),
			Payload: domain.SlaBreachPayload{
				WorkOrderID: wo.ID,
				Status:      wo.Status,
				Deadline:    mapper.FormatTime(*wo.SLADeadline),
				DetectedAt:  mapper.FormatTime(now),
			},
		})
		if err != nil {
			return err
		}
		started = true
		return nil
	})
	if errors.Is(err, errBreachStale) {
		return false, nil
	}
	return started, err
}
