package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// TaskHandler handles task-related endpoints
type TaskHandler struct {
	taskService service.TaskService
	validate    *validator.Validate
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, validate *validator.Validate) *TaskHandler {
	return &TaskHandler{taskService: taskService, validate: validate}
}

// RegisterRoutes mounts task routes
func (h *TaskHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/tasks", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/tasks/", authMw(http.HandlerFunc(h.handleTask)))
}

func (h *TaskHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/tasks" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.listTasks(w, r)
	case http.MethodPost:
		h.createTask(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *TaskHandler) handleTask(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/tasks/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.updateTask(w, r)
	case http.MethodDelete:
		h.deleteTask(w, r)
	default:
		http.NotFound(w, r)
	}
}

// listTasks godoc
// @Summary List tasks
// @Description Lists the authenticated user's tasks ordered by due date.
// @Tags tasks
// @Produce json
// @Success 200 {array} dto.TaskResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to list tasks"
// @Router /tasks [get]
func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	tasks, err := h.taskService.GetTasks(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to list tasks: "+err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]dto.TaskResponseDTO, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, taskResponse(&t))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// createTask godoc
// @Summary Create a new task
// @Description Creates a new task associated with the authenticated user.
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body dto.TaskCreateDTO true "Task creation request"
// @Success 201 {object} dto.TaskResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to create task"
// @Router /tasks [post]
func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.TaskCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	status := model.StatusNotStarted
	if req.Status != nil {
		status = model.TaskStatus(*req.Status)
	}
	task := &model.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: description,
		Course:      req.Course,
		CourseCode:  req.CourseCode,
		TaskType:    model.TaskType(req.TaskType),
		DueDate:     req.DueDate,
		Status:      status,
	}
	created, err := h.taskService.CreateTask(r.Context(), task)
	if err != nil {
		http.Error(w, "Failed to create task: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(taskResponse(created))
}

// updateTask godoc
// @Summary Update a task
// @Description Updates an existing task by its ID.
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param task body dto.TaskUpdateDTO true "Task update request"
// @Success 200 {object} dto.TaskResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Task not found"
// @Failure 500 {string} string "Failed to update task"
// @Router /tasks/{taskId} [put]
func (h *TaskHandler) updateTask(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/tasks/")
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.TaskUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	tasks, err := h.taskService.GetTasks(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to retrieve task: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var task *model.Task
	for i := range tasks {
		if tasks[i].ID == taskID {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Course != nil {
		task.Course = *req.Course
	}
	if req.CourseCode != nil {
		task.CourseCode = *req.CourseCode
	}
	if req.TaskType != nil {
		task.TaskType = model.TaskType(*req.TaskType)
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Status != nil {
		task.Status = model.TaskStatus(*req.Status)
	}
	updated, err := h.taskService.UpdateTask(r.Context(), task)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update task: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(taskResponse(updated))
}

// deleteTask godoc
// @Summary Delete a task
// @Description Deletes a task by its ID.
// @Tags tasks
// @Param taskId path string true "Task ID"
// @Success 204 {string} string "No Content"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Task not found"
// @Failure 500 {string} string "Failed to delete task"
// @Router /tasks/{taskId} [delete]
func (h *TaskHandler) deleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimPrefix(r.URL.Path, "/tasks/")
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			http.Error(w, "Task not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete task: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func taskResponse(t *model.Task) dto.TaskResponseDTO {
	return dto.TaskResponseDTO{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Course:      t.Course,
		CourseCode:  t.CourseCode,
		TaskType:    string(t.TaskType),
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
