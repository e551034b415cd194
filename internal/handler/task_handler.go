package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/model"
	"taskmanager/internal/service/task"
	"taskmanager/pkg/logger"
)

// TaskService is the part of the task service the HTTP layer depends on.
type TaskService interface {
	CreateTask(ctx context.Context, t *model.Task) (*model.Task, error)
	GetTask(ctx context.Context, id int) (*model.Task, error)
	GetAllTasks(ctx context.Context) ([]model.Task, error)
	UpdateTask(ctx context.Context, t *model.Task) (*model.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

type TaskHandler struct {
	svc    TaskService
	logger *zap.Logger
}

func NewTaskHandler(svc TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)

	in, err := decodeTask(c.Request.Body)
	if err != nil {
		log.Warn("CreateTask: invalid request body", zap.Error(err))
		c.String(http.StatusBadRequest, "Error to create new task: "+err.Error())
		return
	}

	created, err := h.svc.CreateTask(c.Request.Context(), in)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, task.ErrInvalidArgument) {
			status = http.StatusInternalServerError
			log.Error("CreateTask: failed to create task", zap.Error(err))
		} else {
			log.Warn("CreateTask: rejected", zap.Error(err))
		}
		c.String(status, "Error to create new task: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.svc.GetAllTasks(c.Request.Context())
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Error("ListTasks: failed to fetch tasks", zap.Error(err))
		c.String(http.StatusInternalServerError, "Error to list tasks: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	t, err := h.svc.GetTask(c.Request.Context(), taskID)
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Error("GetTask: failed to fetch task",
			zap.Int("task_id", taskID),
			zap.Error(err),
		)
		c.String(http.StatusInternalServerError, fmt.Sprintf("Error to get task %d: %v", taskID, err))
		return
	}
	if t == nil {
		c.String(http.StatusNotFound, fmt.Sprintf("taskId %d not found", taskID))
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)

	in, err := decodeTask(c.Request.Body)
	if err != nil {
		log.Warn("UpdateTask: invalid request body", zap.Error(err))
		c.String(http.StatusBadRequest, "Error to update task: "+err.Error())
		return
	}

	updated, err := h.svc.UpdateTask(c.Request.Context(), in)
	if err != nil {
		var status int
		switch {
		case errors.Is(err, task.ErrNotFound):
			status = http.StatusNotFound
			log.Warn("UpdateTask: task not found", zap.Error(err))
		case errors.Is(err, task.ErrInvalidArgument):
			status = http.StatusBadRequest
			log.Warn("UpdateTask: rejected", zap.Error(err))
		default:
			status = http.StatusInternalServerError
			log.Error("UpdateTask: failed to update task", zap.Error(err))
		}
		c.String(status, "Error to update task: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	// unknown ids succeed; only a store failure lands here
	if err := h.svc.DeleteTask(c.Request.Context(), taskID); err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Error("DeleteTask: failed to delete task",
			zap.Int("task_id", taskID),
			zap.Error(err),
		)
		c.String(http.StatusNotFound, fmt.Sprintf("taskId %d not found: %v", taskID, err))
		return
	}

	c.Status(http.StatusOK)
}

func (h *TaskHandler) taskIDParam(c *gin.Context) (int, bool) {
	idStr := c.Param("taskId")
	taskID, err := strconv.Atoi(idStr)
	if err != nil {
		logger.WithTrace(c.Request.Context(), h.logger).Warn("invalid task id format",
			zap.String("task_id", idStr),
			zap.Error(err),
		)
		c.String(http.StatusBadRequest, fmt.Sprintf("invalid task id %q", idStr))
		return 0, false
	}
	return taskID, true
}

// decodeTask reads a task JSON body. An empty body or a JSON null yields a nil task,
// which the service rejects as a missing argument. The body must hold exactly one value.
func decodeTask(body io.Reader) (*model.Task, error) {
	dec := json.NewDecoder(body)
	var t *model.Task
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid request body: unexpected data after task object")
	}
	return t, nil
}
