package handlers

import (
	"errors"
	"net/http"
	"strconv"

	dom "github.com/Anaswara-Rajesh/kanban-board/internal/domain"
	"github.com/Anaswara-Rajesh/kanban-board/internal/dto"
	"github.com/Anaswara-Rajesh/kanban-board/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.BoardService
}

func NewTaskHandler(svc *service.BoardService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Register mounts the task and board routes on api.
func (h *TaskHandler) Register(api gin.IRoutes) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.GET("/board", h.Board)
	api.GET("/board/:column", h.Column)
	api.POST("/board/reload", h.Reload)
	api.POST("/board/:column/drop", h.Drop)
}

// Create godoc
// @Summary      Create a task in the To Do column
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Add(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// List godoc
// @Summary      List all tasks in insertion order
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  dto.ListTasksResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(h.svc.Tasks())})
}

// Update godoc
// @Summary      Edit title and description of a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "New title and description"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Edit(c.Request.Context(), c.Param("id"), req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Description  The client must ask the user first and pass confirm=true.
// @Tags         tasks
// @Param        id       path   string  true  "Task ID"
// @Param        confirm  query  bool    true  "User confirmed the deletion"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      428  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if !confirmed {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Drop godoc
// @Summary      Move a dragged task into a column
// @Tags         board
// @Accept       json
// @Produce      json
// @Param        column  path      string           true  "Target column (todo, inProgress, done)"
// @Param        body    body      dto.DropRequest  true  "Dragged task"
// @Success      200     {object}  dto.TaskResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /board/{column}/drop [post]
func (h *TaskHandler) Drop(c *gin.Context) {
	col, ok := parseColumn(c)
	if !ok {
		return
	}
	var req dto.DropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Move(c.Request.Context(), req.ID, col)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Board godoc
// @Summary      Tasks grouped by column
// @Tags         board
// @Produce      json
// @Success      200  {object}  dto.BoardResponse
// @Router       /board [get]
func (h *TaskHandler) Board(c *gin.Context) {
	views := h.svc.Board()
	out := dto.BoardResponse{Columns: make([]dto.ColumnResponse, len(views))}
	for i, v := range views {
		out.Columns[i] = dto.ColumnResponse{
			ID:    string(v.Column),
			Title: v.Title,
			Count: v.Count,
			Tasks: tasksToResponses(v.Tasks),
		}
	}
	c.JSON(http.StatusOK, out)
}

// Column godoc
// @Summary      Tasks of one column
// @Tags         board
// @Produce      json
// @Param        column  path      string  true  "Column (todo, inProgress, done)"
// @Success      200     {object}  dto.ListTasksResponse
// @Failure      400     {object}  map[string]string
// @Router       /board/{column} [get]
func (h *TaskHandler) Column(c *gin.Context) {
	col, ok := parseColumn(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(h.svc.Column(col))})
}

// Reload godoc
// @Summary      Reload the board from storage
// @Tags         board
// @Produce      json
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /board/reload [post]
func (h *TaskHandler) Reload(c *gin.Context) {
	list, err := h.svc.Reload(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

func parseColumn(c *gin.Context) (dom.Column, bool) {
	col, err := dom.ParseColumn(c.Param("column"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid column"})
		return "", false
	}
	return col, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dom.ErrEmptyTitle), errors.Is(err, dom.ErrInvalidColumn):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dom.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Column:      string(t.Column),
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
