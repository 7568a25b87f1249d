package service

import (
	"testing"
	"time"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasks(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	v, other := f.plumber(), f.plumber()
	wo := f.assignedOrder(v)

	deadline := f.clock.Now().Add(6 * time.Hour)
	task, err := f.tasks.Add(asVendor(v), wo.ID, &domain.AddTaskRequest{Title: "Order replacement valve", Deadline: &deadline})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, task.Status)

	_, err = f.tasks.Add(asVendor(other), wo.ID, &domain.AddTaskRequest{Title: "Sneaky"})
	requireKind(t, err, domain.KindUnauthorized)

	_, err = f.tasks.Update(asVendor(v), task.ID, &domain.UpdateTaskRequest{Status: domain.TaskStatusDelayed})
	requireKind(t, err, domain.KindValidation)

	delayed, err := f.tasks.Update(asVendor(v), task.ID, &domain.UpdateTaskRequest{Status: domain.TaskStatusDelayed, DelayReason: "Part on backorder"})
	require.NoError(t, err)
	require.NotNil(t, delayed.DelayReason)
	assert.Equal(t, "Part on backorder", *delayed.DelayReason)

	done, err := f.tasks.Update(asUser(f.agent), task.ID, &domain.UpdateTaskRequest{Status: domain.TaskStatusCompleted})
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt)
	assert.Nil(t, done.DelayReason)

	tasks, err := f.tasks.List(asVendor(v), wo.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTasks_OnlyWhileWorkIsActive(t *testing.T) {
	f := newFixture(t, config.LifecycleConfig{})
	wo := f.publishedOrder()

	_, err := f.tasks.Add(asUser(f.agent), wo.ID, &domain.AddTaskRequest{Title: "Too early"})
	requireKind(t, err, domain.KindInvalidTransition)
}
