package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/WatermalonExp/student-ai-portal/pkg/errors"
	"github.com/WatermalonExp/student-ai-portal/shared/utils"
	"github.com/WatermalonExp/student-ai-portal/v1/catalog"
	"github.com/WatermalonExp/student-ai-portal/v1/middleware"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"github.com/WatermalonExp/student-ai-portal/v1/services"
)

// maxUploadMemory caps how much of a multipart upload is buffered in memory
const maxUploadMemory = 32 << 20

// V1Handler handles all V1 API routes
type V1Handler struct {
	applicationService *services.ApplicationService
	authService        *services.AuthService
	chatService        *services.ChatService
	catalog            *catalog.Catalog
}

// NewV1Handler creates a new V1 handler
func NewV1Handler(applicationService *services.ApplicationService, authService *services.AuthService, chatService *services.ChatService, cat *catalog.Catalog) *V1Handler {
	return &V1Handler{
		applicationService: applicationService,
		authService:        authService,
		chatService:        chatService,
		catalog:            cat,
	}
}

// SetupV1Routes configures the authenticated V1 API routes
func (h *V1Handler) SetupV1Routes(mux *http.ServeMux) {
	// Application routes
	mux.Handle("/api/v1/applications", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleApplications)))
	mux.Handle("/api/v1/applications/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleApplications)))

	// Assistant routes
	mux.Handle("/api/v1/chat", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleChat)))
}

// SetupPublicRoutes configures the routes that work without authentication
func (h *V1Handler) SetupPublicRoutes(mux *http.ServeMux) {
	mux.Handle("/api/v1/auth/register", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.register)))
	mux.Handle("/api/v1/auth/login", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.login)))
	mux.Handle("/api/v1/programmes", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.getProgrammes)))
}

// handleApplications handles application-related routes
func (h *V1Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/applications")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/applications and POST /api/v1/applications
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.getApplications(w, r)
		case http.MethodPost:
			h.createApplication(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	applicationID, ok := parseID(parts[0])
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Application ID must be numeric")
		return
	}

	// Handle base application endpoint: GET /api/v1/applications/:applicationId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getApplicationSummary(w, r, applicationID)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "submit":
			if r.Method != http.MethodPost {
				utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			h.submitApplication(w, r, applicationID)
		case "documents":
			switch r.Method {
			case http.MethodGet:
				h.listDocuments(w, r, applicationID)
			case http.MethodPost:
				h.uploadDocument(w, r, applicationID)
			case http.MethodDelete:
				h.deleteAllDocuments(w, r, applicationID)
			default:
				utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		case "decisions":
			switch r.Method {
			case http.MethodGet:
				h.getDecisions(w, r, applicationID)
			case http.MethodPost:
				h.recordDecision(w, r, applicationID)
			default:
				utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		default:
			utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
		}
		return
	}

	// Handle document endpoint: DELETE /api/v1/applications/:applicationId/documents/:documentId
	if len(parts) == 3 && parts[1] == "documents" {
		documentID, ok := parseID(parts[2])
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, "Document ID must be numeric")
			return
		}
		if r.Method != http.MethodDelete {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.deleteDocument(w, r, applicationID, documentID)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) getApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var apps []models.ApplicationResponse
	var err error
	if r.URL.Query().Get("all") == "true" {
		if !user.HasPermission(models.PermissionReadAllApplications) {
			utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		apps, err = h.applicationService.GetAllApplications(user.UserID)
	} else {
		apps, err = h.applicationService.GetApplications(user.UserID)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, models.CollectionResponse{Items: apps, Count: len(apps)})
}

func (h *V1Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !user.HasPermission(models.PermissionCreateApplication) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	var req models.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := h.applicationService.CreateApplication(user.UserID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, app)
}

func (h *V1Handler) getApplicationSummary(w http.ResponseWriter, r *http.Request, applicationID uint) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	summary, err := h.applicationService.GetSummary(user.UserID, applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, summary)
}

func (h *V1Handler) submitApplication(w http.ResponseWriter, r *http.Request, applicationID uint) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !user.HasPermission(models.PermissionSubmitApplication) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	result, err := h.applicationService.Submit(user.UserID, applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, result)
}

func (h *V1Handler) listDocuments(w http.ResponseWriter, r *http.Request, applicationID uint) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	docs, err := h.applicationService.ListDocuments(user.UserID, applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, models.CollectionResponse{Items: docs, Count: len(docs)})
}

func (h *V1Handler) uploadDocument(w http.ResponseWriter, r *http.Request, applicationID uint) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !user.HasPermission(models.PermissionUploadDocument) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "A file upload is required")
		return
	}
	defer file.Close()

	docType := models.DocType(r.FormValue("docType"))

	result, err := h.applicationService.UploadDocument(user.UserID, applicationID, docType, header.Filename, file)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, result)
}

func (h *V1Handler) deleteDocument(w http.ResponseWriter, r *http.Request, applicationID, documentID uint) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !user.HasPermission(models.PermissionDeleteDocument) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	result, err := h.applicationService.DeleteDocument(user.UserID, applicationID, documentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, result)
}

func (h *V1Handler) deleteAllDocuments(w http.ResponseWriter, r *http.Request, applicationID uint) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !user.HasPermission(models.PermissionDeleteDocument) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	result, err := h.applicationService.DeleteAllDocuments(user.UserID, applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, result)
}

func (h *V1Handler) getDecisions(w http.ResponseWriter, r *http.Request, applicationID uint) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	summary, err := h.applicationService.GetSummary(user.UserID, applicationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if summary.LatestDecision == nil {
		utils.RespondWithSuccess(w, http.StatusOK, models.CollectionResponse{Items: []models.DecisionResponse{}, Count: 0})
		return
	}
	utils.RespondWithSuccess(w, http.StatusOK, models.CollectionResponse{
		Items: []models.DecisionResponse{*summary.LatestDecision},
		Count: 1,
	})
}

func (h *V1Handler) recordDecision(w http.ResponseWriter, r *http.Request, applicationID uint) {
	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !user.HasPermission(models.PermissionDecideApplication) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	var req models.RecordDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	decision, err := h.applicationService.RecordDecision(user.UserID, applicationID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, decision)
}

// handleChat handles POST /api/v1/chat
func (h *V1Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	user, ok := middleware.GetUserFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.chatService.Respond(r.Context(), user.UserID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, reply)
}

// register handles POST /api/v1/auth/register
func (h *V1Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	auth, err := h.authService.Register(&req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, auth)
}

// login handles POST /api/v1/auth/login
func (h *V1Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	auth, err := h.authService.Login(&req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, auth)
}

// getProgrammes handles GET /api/v1/programmes?level=Bachelor
func (h *V1Handler) getProgrammes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	level := models.Level(r.URL.Query().Get("level"))
	programmes, err := h.catalog.ProgrammesFor(level)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	required, err := h.catalog.RequiredDocuments(level)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"level":             level,
		"programmes":        programmes,
		"requiredDocuments": required,
	})
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondServiceError translates service errors into the wire error format.
// Incomplete-submission errors additionally carry the missing document types.
func respondServiceError(w http.ResponseWriter, err error) {
	var incomplete *apperrors.IncompleteApplicationError
	if errors.As(err, &incomplete) {
		utils.RespondWithJSON(w, incomplete.HTTPStatus, map[string]interface{}{
			"error": map[string]interface{}{
				"code":         incomplete.Code,
				"message":      incomplete.Message,
				"missingTypes": incomplete.MissingTypes,
			},
		})
		return
	}

	if apiErr := apperrors.GetAPIError(err); apiErr != nil {
		utils.RespondWithErrorCode(w, apiErr.HTTPStatus, apiErr.Code, apiErr.Message)
		return
	}

	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}
