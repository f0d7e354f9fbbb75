package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	authMiddleware "github.com/studentrecords/backend/internal/auth/middleware"
	"github.com/studentrecords/backend/internal/models"
	"go.uber.org/zap"
)

// StudentService is the interface that wraps methods for student record management.
type StudentService interface {
	// Method List returns the public profiles of all students, newest first.
	List(ctx context.Context) ([]models.Profile, error)
	// Method Create adds a new student record; an omitted password falls
	// back to the default password.
	//
	// If the email is already taken, models.ErrUserExists is returned.
	Create(ctx context.Context, req *models.CreateStudentRequest) (*models.Profile, error)
	// Method Get returns a single user's profile, subject to the ownership rule.
	Get(ctx context.Context, actor *models.User, id string) (*models.Profile, error)
	// Method Update applies a partial update, subject to the ownership rule.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned;
	// a caller who is neither an admin nor the record owner gets
	// models.ErrNotAllowed.
	Update(ctx context.Context, actor *models.User, id string, req *models.UpdateStudentRequest) (*models.Profile, error)
	// Method Delete removes a user record.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned.
	Delete(ctx context.Context, id string) error
}

// StudentHandler handles student record HTTP requests
type StudentHandler struct {
	BaseHandler
	studentService StudentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentService StudentService, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		studentService: studentService,
	}
}

// RegisterRoutes registers all student handler routes behind the given
// authentication and admin-role middleware.
// Note: This assumes the router is already scoped to /api
func (h *StudentHandler) RegisterRoutes(r chi.Router, authenticate, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/students", func(r chi.Router) {
		r.Use(authenticate)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Delete("/{id}", h.Delete)
		})

		// Admin or owner; the ownership check runs in the service
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
	})
}

// List handles GET /students
// @Summary List all students
// @Description Get all student profiles, newest first. Admin only.
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Profile
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Router /students [get]
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.studentService.List(r.Context())
	if err != nil {
		h.Logger.Error("failed to list students", zap.Error(err))
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, profiles)
}

// Create handles POST /students
// @Summary Add a student
// @Description Create a new student record. Admin only. An omitted password falls back to the default.
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateStudentRequest true "Student to create"
// @Success 201 {object} models.Profile
// @Failure 400 {object} map[string]string "Invalid request body or user already exists"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Router /students [post]
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.studentService.Create(r.Context(), &req)
	if err != nil {
		h.Logger.Warn("failed to create student", zap.Error(err))
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, profile)
}

// Get handles GET /students/{id}
// @Summary Get a student
// @Description Get a single profile. Admins may read anyone, students only themselves.
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Not the record owner"
// @Failure 404 {object} map[string]string "Student not found"
// @Router /students/{id} [get]
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := authMiddleware.UserFromContext(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	profile, err := h.studentService.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// Update handles PUT /students/{id}
// @Summary Update a student
// @Description Partially update a profile. Admins may update anyone, students only themselves. A provided password is re-hashed; role changes are applied only for admin callers.
// @Tags students
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Param request body models.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Not the record owner"
// @Failure 404 {object} map[string]string "Student not found"
// @Router /students/{id} [put]
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := authMiddleware.UserFromContext(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	var req models.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.studentService.Update(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.Logger.Warn("failed to update student", zap.Error(err))
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, profile)
}

// Delete handles DELETE /students/{id}
// @Summary Delete a student
// @Description Remove a user record. Admin only. Deletion is immediate and final.
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string "Student removed"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Failure 404 {object} map[string]string "Student not found"
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.studentService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.Logger.Warn("failed to delete student", zap.Error(err))
		h.RespondDomainError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Student removed"})
}
