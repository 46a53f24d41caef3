package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/microtasks/internal/api/metrics"
	"github.com/99minutos/microtasks/internal/core/ports"
)

// TaskHandler handles HTTP requests for the task catalog.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /api/tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   taskResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Create handles POST /api/tasks.
//
// @Summary      Publish a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	id, err := h.service.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		Caller:      caller,
		Title:       req.Title,
		Description: req.Description,
		Reward:      req.Reward,
	})
	if err != nil {
		return err
	}

	metrics.TasksPublishedTotal.Inc()
	return c.JSON(http.StatusCreated, createdResponse{Message: "task published", ID: id})
}
