package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errSnapshotChanged aborts a unit of work whose lock set went stale before the locks were held
var errSnapshotChanged = errors.New("locked entity set changed")

// notFound converts a missing row into a NotFound error and wraps everything else
func notFound(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(entity, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", entity, id, err)
}

// actorFrom returns the actor issuing the current request
func actorFrom(ctx context.Context) (domain.Actor, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, domain.NewError(domain.KindUnauthorized, "Authentication required")
	}
	return actor, nil
}

func requireStaff(actor domain.Actor) error {
	if !actor.IsStaff() {
		return domain.NewError(domain.KindUnauthorized, "Only agents and admins can perform this action")
	}
	return nil
}

func requireAdmin(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return domain.NewError(domain.KindUnauthorized, "Only admins can perform this action")
	}
	return nil
}

func requireVendor(actor domain.Actor) error {
	if actor.Role != domain.RoleVendor {
		return domain.NewError(domain.KindUnauthorized, "Only vendors can perform this action")
	}
	return nil
}
