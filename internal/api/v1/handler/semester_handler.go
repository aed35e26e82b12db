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

// SemesterHandler handles semester-related endpoints
type SemesterHandler struct {
	semesterService service.SemesterService
	validate        *validator.Validate
}

// NewSemesterHandler creates a new SemesterHandler
func NewSemesterHandler(semesterService service.SemesterService, validate *validator.Validate) *SemesterHandler {
	return &SemesterHandler{semesterService: semesterService, validate: validate}
}

// RegisterRoutes mounts semester routes
func (h *SemesterHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/semesters", authMw(http.HandlerFunc(h.handleCollection)))
	mux.Handle("/semesters/", authMw(http.HandlerFunc(h.handleSemester)))
}

func (h *SemesterHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/semesters" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.listSemesters(w, r)
	case http.MethodPost:
		h.createSemester(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SemesterHandler) handleSemester(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/semesters/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.updateSemester(w, r)
	case http.MethodDelete:
		h.deleteSemester(w, r)
	default:
		http.NotFound(w, r)
	}
}

// listSemesters godoc
// @Summary List semesters
// @Description Lists the authenticated user's semesters ordered by start date.
// @Tags semesters
// @Produce json
// @Success 200 {array} dto.SemesterResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to list semesters"
// @Router /semesters [get]
func (h *SemesterHandler) listSemesters(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	semesters, err := h.semesterService.GetSemesters(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to list semesters: "+err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]dto.SemesterResponseDTO, 0, len(semesters))
	for _, s := range semesters {
		resp = append(resp, semesterResponse(&s))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// createSemester godoc
// @Summary Create a new semester
// @Description Creates a new semester associated with the authenticated user.
// @Tags semesters
// @Accept json
// @Produce json
// @Param semester body dto.SemesterCreateDTO true "Semester creation request"
// @Success 201 {object} dto.SemesterResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to create semester"
// @Router /semesters [post]
func (h *SemesterHandler) createSemester(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.SemesterCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	semester := &model.Semester{
		UserID:    userID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	created, err := h.semesterService.CreateSemester(r.Context(), semester)
	if err != nil {
		http.Error(w, "Failed to create semester: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(semesterResponse(created))
}

// updateSemester godoc
// @Summary Update a semester
// @Description Updates an existing semester by its ID.
// @Tags semesters
// @Accept json
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param semester body dto.SemesterUpdateDTO true "Semester update request"
// @Success 200 {object} dto.SemesterResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Semester not found"
// @Failure 500 {string} string "Failed to update semester"
// @Router /semesters/{semesterId} [put]
func (h *SemesterHandler) updateSemester(w http.ResponseWriter, r *http.Request) {
	semesterID := strings.TrimPrefix(r.URL.Path, "/semesters/")
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.SemesterUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	semesters, err := h.semesterService.GetSemesters(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to retrieve semester: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var semester *model.Semester
	for i := range semesters {
		if semesters[i].ID == semesterID {
			semester = &semesters[i]
			break
		}
	}
	if semester == nil {
		http.Error(w, "Semester not found", http.StatusNotFound)
		return
	}
	if req.Name != nil {
		semester.Name = *req.Name
	}
	if req.StartDate != nil {
		semester.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		semester.EndDate = *req.EndDate
	}
	updated, err := h.semesterService.UpdateSemester(r.Context(), semester)
	if err != nil {
		if errors.Is(err, service.ErrSemesterNotFound) {
			http.Error(w, "Semester not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update semester: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(semesterResponse(updated))
}

// deleteSemester godoc
// @Summary Delete a semester
// @Description Deletes a semester along with its courses and their tasks.
// @Tags semesters
// @Param semesterId path string true "Semester ID"
// @Success 204 {string} string "No Content"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Semester not found"
// @Failure 500 {string} string "Failed to delete semester"
// @Router /semesters/{semesterId} [delete]
func (h *SemesterHandler) deleteSemester(w http.ResponseWriter, r *http.Request) {
	semesterID := strings.TrimPrefix(r.URL.Path, "/semesters/")
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	if err := h.semesterService.DeleteSemester(r.Context(), userID, semesterID); err != nil {
		if errors.Is(err, service.ErrSemesterNotFound) {
			http.Error(w, "Semester not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete semester: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func semesterResponse(s *model.Semester) dto.SemesterResponseDTO {
	return dto.SemesterResponseDTO{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
