package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
)

// NotificationHandler handles notification preference endpoints
type NotificationHandler struct {
	notificationService service.NotificationService
	validate            *validator.Validate
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService service.NotificationService, validate *validator.Validate) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, validate: validate}
}

// RegisterRoutes mounts notification routes
func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/notifications/settings", authMw(http.HandlerFunc(h.handleSettings)))
	mux.Handle("/notifications/send", authMw(http.HandlerFunc(h.sendDigests)))
}

func (h *NotificationHandler) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/notifications/settings" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.getSettings(w, r)
	case http.MethodPut:
		h.updateSettings(w, r)
	default:
		http.NotFound(w, r)
	}
}

// getSettings godoc
// @Summary Get notification settings
// @Description Returns the authenticated user's notification preferences,
// @Description falling back to defaults when none are stored.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.NotificationPreferencesResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to retrieve settings"
// @Router /notifications/settings [get]
func (h *NotificationHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	prefs, err := h.notificationService.GetPreferences(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to retrieve settings: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(preferencesResponse(prefs))
}

// updateSettings godoc
// @Summary Update notification settings
// @Description Stores the authenticated user's notification preferences.
// @Tags notifications
// @Accept json
// @Produce json
// @Param settings body dto.NotificationPreferencesDTO true "Notification preferences"
// @Success 200 {object} dto.NotificationPreferencesResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to update settings"
// @Router /notifications/settings [put]
func (h *NotificationHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	var req dto.NotificationPreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	prefs := &model.NotificationPreferences{
		UserID:              userID,
		DigestFrequency:     req.DigestFrequency,
		DigestTime:          req.DigestTime,
		EmailNotifications:  *req.EmailNotifications,
		UpcomingTasksWindow: req.UpcomingTasksWindow,
	}
	updated, err := h.notificationService.UpdatePreferences(r.Context(), prefs)
	if err != nil {
		http.Error(w, "Failed to update settings: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(preferencesResponse(updated))
}

// sendDigests godoc
// @Summary Trigger digest dispatch
// @Description Enqueues digest jobs for every recipient with upcoming tasks.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.DigestDispatchResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to dispatch digests"
// @Router /notifications/send [post]
func (h *NotificationHandler) sendDigests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/notifications/send" {
		http.NotFound(w, r)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	enqueued, err := h.notificationService.DispatchDigests(r.Context())
	if err != nil {
		http.Error(w, "Failed to dispatch digests: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto.DigestDispatchResponseDTO{Enqueued: enqueued})
}

func preferencesResponse(p *model.NotificationPreferences) dto.NotificationPreferencesResponseDTO {
	return dto.NotificationPreferencesResponseDTO{
		UserID:              p.UserID,
		DigestFrequency:     p.DigestFrequency,
		DigestTime:          p.DigestTime,
		EmailNotifications:  p.EmailNotifications,
		UpcomingTasksWindow: p.UpcomingTasksWindow,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
