package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewAdvancer opens review on orders that stopped receiving proposals
type ReviewAdvancer struct {
	core
}

func NewReviewAdvancer(deps Deps) *ReviewAdvancer {
	return &ReviewAdvancer{core: newCore(deps)}
}

// Enabled reports whether review opens automatically after the quiet period
func (a *ReviewAdvancer) Enabled() bool {
	return a.cfg.ReviewTrigger == config.ReviewTriggerQuietPeriod && a.cfg.ReviewQuietPeriod() > 0
}

// Advance moves every applications_received order whose newest proposal is older than
// the quiet period to under_review. It returns the number of orders moved.
func (a *ReviewAdvancer) Advance(ctx context.Context) (int, error) {
	if !a.Enabled() {
		return 0, nil
	}

	orders, err := a.store.Repos().WorkOrders.ListByStatus(ctx, domain.WorkOrderStatusApplicationsReceived)
	if err != nil {
		return 0, fmt.Errorf("failed to load orders awaiting review: %w", err)
	}

	moved := 0
	for i := range orders {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		ok, err := a.advanceOne(ctx, orders[i].ID)
		if err != nil {
			a.logger.Error("failed to open review",
				zap.String("work_order_id", orders[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		if ok {
			moved++
		}
	}

	if moved > 0 {
		a.logger.Info("review opened after quiet period", zap.Int("work_orders", moved))
	}
	return moved, nil
}

func (a *ReviewAdvancer) advanceOne(ctx context.Context, id uuid.UUID) (bool, error) {
	moved := false
	err := a.atomic(ctx, []string{repository.OrderKey(id)}, func(r *repository.Repositories) error {
		wo, err := r.WorkOrders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Work order", id)
		}
		if wo.Status != domain.WorkOrderStatusApplicationsReceived {
			return nil
		}

		latest, err := r.Proposals.GetLatestByWorkOrder(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load latest proposal: %w", err)
		}
		if a.now().Sub(latest.CreatedAt) < a.cfg.ReviewQuietPeriod() {
			return nil
		}

		err = a.openReview(ctx, r, wo, domain.SystemActor(), "No new proposals during the quiet period")
		if errors.Is(err, domain.ErrInvalidTransition) {
			// every proposal was rejected; wait for a new one
			return nil
		}
		if err != nil {
			return err
		}
		moved = true
		return nil
	})
	return moved, err
}
