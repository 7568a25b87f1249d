package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"github.com/google/uuid"
)

type TaskService struct {
	core
}

func NewTaskService(deps Deps) *TaskService {
	return &TaskService{core: newCore(deps)}
}

// Add creates a task on an assigned or in-progress order. Staff and the assigned vendor may add tasks.
func (s *TaskService) Add(ctx context.Context, workOrderID uuid.UUID, req *domain.AddTaskRequest) (*domain.TaskDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var task *domain.Task
	err = s.atomic(ctx, []string{repository.OrderKey(workOrderID)}, func(r *repository.Repositories) error {
		wo, err := r.WorkOrders.GetByIDForUpdate(ctx, workOrderID)
		if err != nil {
			return notFound(err, "Work order", workOrderID)
		}
		if err := canWorkOn(actor, wo); err != nil {
			return err
		}

		now := s.now()
		task = &domain.Task{
			WorkOrderID: wo.ID,
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Status:      domain.TaskStatusPending,
			UpdatedAt:   now,
		}
		if req.Deadline != nil {
			deadline := req.Deadline.UTC()
			task.Deadline = &deadline
		}
		task.CreatedAt = now
		if err := r.Tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// Update changes the status of a task. A delayed task needs a reason.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTaskRequest) (*domain.TaskDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.DelayReason)
	if req.Status == domain.TaskStatusDelayed && reason == "" {
		return nil, domain.NewValidationError("A delayed task needs a reason",
			map[string]string{"delayReason": "This field is required"})
	}

	snapshot, err := s.store.Repos().Tasks.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Task", id)
	}

	var task *domain.Task
	err = s.atomic(ctx, []string{repository.OrderKey(snapshot.WorkOrderID)}, func(r *repository.Repositories) error {
		task, err = r.Tasks.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Task", id)
		}
		wo, err := r.WorkOrders.GetByIDForUpdate(ctx, task.WorkOrderID)
		if err != nil {
			return notFound(err, "Work order", task.WorkOrderID)
		}
		if err := canWorkOn(actor, wo); err != nil {
			return err
		}

		now := s.now()
		task.Status = req.Status
		task.DelayReason = nil
		task.CompletedAt = nil
		switch req.Status {
		case domain.TaskStatusDelayed:
			task.DelayReason = &reason
		case domain.TaskStatusCompleted:
			task.CompletedAt = &now
		}
		task.UpdatedAt = now
		if err := r.Tasks.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// List returns the live tasks of an order
func (s *TaskService) List(ctx context.Context, workOrderID uuid.UUID) ([]domain.TaskDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	repos := s.store.Repos()
	wo, err := repos.WorkOrders.GetByID(ctx, workOrderID)
	if err != nil {
		return nil, notFound(err, "Work order", workOrderID)
	}
	if err := canView(actor, wo); err != nil {
		return nil, err
	}

	tasks, err := repos.Tasks.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return mapper.ToTaskDTOs(tasks), nil
}

// canWorkOn checks that tasks of wo may be changed by actor
func canWorkOn(actor domain.Actor, wo *domain.WorkOrder) error {
	if !actor.IsStaff() && !(wo.AssignedVendorID != nil && actor.IsVendor(*wo.AssignedVendorID)) {
		return domain.NewError(domain.KindUnauthorized, "Only staff and the assigned vendor can manage tasks")
	}
	switch wo.Status {
	case domain.WorkOrderStatusAssigned, domain.WorkOrderStatusInProgress:
		return nil
	}
	return domain.NewError(domain.KindInvalidTransition,
		"Tasks can only change while a work order is assigned or in progress")
}
