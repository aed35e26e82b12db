package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// SyllabusHandler handles syllabus ingestion endpoints
type SyllabusHandler struct {
	syllabusService service.SyllabusService
	parserService   service.ParserService
	validate        *validator.Validate
}

// NewSyllabusHandler creates a new SyllabusHandler
func NewSyllabusHandler(syllabusService service.SyllabusService, parserService service.ParserService, validate *validator.Validate) *SyllabusHandler {
	return &SyllabusHandler{syllabusService: syllabusService, parserService: parserService, validate: validate}
}

// RegisterRoutes mounts syllabus routes
func (h *SyllabusHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/syllabi", authMw(http.HandlerFunc(h.uploadSyllabus)))
	mux.Handle("/parse-syllabus", authMw(http.HandlerFunc(h.parseSyllabus)))
}

// uploadSyllabus godoc
// @Summary Upload and process a syllabus file
// @Description Extracts text from the uploaded file, structures it, validates
// @Description the result, and commits new semesters, courses, and tasks.
// @Tags syllabi
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Syllabus file (PDF, Word, or plain text)"
// @Success 200 {object} dto.UploadResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 413 {object} dto.ErrorResponseDTO "File too large"
// @Failure 415 {object} dto.ErrorResponseDTO "Unsupported file type"
// @Failure 422 {object} dto.ErrorResponseDTO "Validation failed"
// @Failure 429 {object} dto.ErrorResponseDTO "Rate limit exceeded"
// @Failure 500 {object} dto.ErrorResponseDTO "Failed to process syllabus"
// @Router /syllabi [post]
func (h *SyllabusHandler) uploadSyllabus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/syllabi" {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	// Cap the request body slightly above the file limit to leave room for
	// the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(service.MaxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, service.ErrFileTooLarge.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	upload := service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}

	summary, err := h.syllabusService.ProcessUpload(r.Context(), userID, upload)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	resp := dto.UploadResponseDTO{
		Message:       summary.Message,
		MissingFields: summary.MissingFields,
		SemesterID:    summary.SemesterID,
		CourseID:      summary.CourseID,
		CreatedTasks:  summary.CreatedTasks,
		SkippedTasks:  summary.SkippedTasks,
		Parsed:        summary.Parsed,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// parseSyllabus godoc
// @Summary Structure raw syllabus text
// @Description Sends raw syllabus text to the structuring model and returns
// @Description the extracted semester, course, and tasks without committing.
// @Tags syllabi
// @Accept json
// @Produce json
// @Param request body dto.ParseRequestDTO true "Raw syllabus text"
// @Success 200 {object} dto.ParseResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO "Invalid or missing text"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 429 {object} dto.ErrorResponseDTO "Rate limit exceeded"
// @Failure 500 {object} dto.ErrorResponseDTO "Failed to process syllabus"
// @Router /parse-syllabus [post]
func (h *SyllabusHandler) parseSyllabus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/parse-syllabus" {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.ParseRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrMissingText.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, service.ErrMissingText.Error())
		return
	}

	parsed, err := h.parserService.Parse(r.Context(), userID, req.Text)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	resp := dto.ParseResponseDTO{
		Semester: parsed.Semester,
		Course:   parsed.Course,
		Tasks:    parsed.Tasks,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeUploadError maps pipeline errors onto HTTP status codes.
func (h *SyllabusHandler) writeUploadError(w http.ResponseWriter, err error) {
	var rateErr *service.RateLimitedError
	if errors.As(err, &rateErr) {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rateErr.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rateErr.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rateErr.Reset.Unix(), 10))
		retryAfter := int(time.Until(rateErr.Reset).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeError(w, http.StatusTooManyRequests, rateErr.Error())
		return
	}
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
		return
	}
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrUnsupportedType):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrPageLimitExceeded),
		errors.Is(err, service.ErrEmptyExtraction),
		errors.Is(err, service.ErrExtractionFailed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrMissingText),
		errors.Is(err, service.ErrTextTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process syllabus: %s", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponseDTO{Error: message})
}
