package handler

import (
	"net/http"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/service"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *service.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {array} domain.TaskDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/tasks [get]
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	workOrderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tasks, err := h.taskService.List(r.Context(), workOrderID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Add godoc
// @Summary Add task
// @Description Add a task to an assigned or in-progress order. Staff and the assigned vendor only.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.AddTaskRequest true "Task"
// @Success 201 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /work-orders/{id}/tasks [post]
func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	workOrderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.AddTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	task, err := h.taskService.Add(r.Context(), workOrderID, &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// Update godoc
// @Summary Update task
// @Description Change a task's status. A delayed task needs a delayReason.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID" format(uuid)
// @Param request body domain.UpdateTaskRequest true "New status"
// @Success 200 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	task, err := h.taskService.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}
