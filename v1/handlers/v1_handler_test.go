package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/WatermalonExp/student-ai-portal/v1/catalog"
	"github.com/WatermalonExp/student-ai-portal/v1/middleware"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"github.com/WatermalonExp/student-ai-portal/v1/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer wires the full HTTP surface against an in-memory database,
// the way the binary assembles it
func setupTestServer(t *testing.T) http.Handler {
	db := services.SetupSQLiteTestDB(t)

	programmeCatalog := catalog.Default()
	fileStore := services.NewLocalFileStore(t.TempDir())

	authService := services.NewAuthService(db, []string{"rex@example.com"})
	documentService := services.NewDocumentService(db, fileStore)
	decisionService := services.NewDecisionService(db)
	applicationService := services.NewApplicationService(
		db, programmeCatalog, documentService, decisionService, fileStore, authService)
	chatService := services.NewChatService(applicationService, programmeCatalog, nil)

	handler := NewV1Handler(applicationService, authService, chatService, programmeCatalog)

	apiMux := http.NewServeMux()
	handler.SetupV1Routes(apiMux)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	publicMux := http.NewServeMux()
	handler.SetupPublicRoutes(publicMux)

	topLevelMux := http.NewServeMux()
	topLevelMux.Handle("/api/v1/auth/", publicMux)
	topLevelMux.Handle("/api/v1/programmes", publicMux)
	topLevelMux.Handle("/api/v1/", authMiddleware.Authenticate(apiMux))
	return topLevelMux
}

func doJSON(t *testing.T, server http.Handler, method, path string, userID uint, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if userID != 0 {
		req.Header.Set("X-User-ID", strconv.FormatUint(uint64(userID), 10))
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, server http.Handler, email string) uint {
	rec := doJSON(t, server, http.MethodPost, "/api/v1/auth/register", 0, models.RegisterRequest{
		FullName: "Test User",
		Email:    email,
		Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	return auth.UserID
}

func createApplication(t *testing.T, server http.Handler, userID uint) uint {
	rec := doJSON(t, server, http.MethodPost, "/api/v1/applications", userID, models.CreateApplicationRequest{
		ProgramLevel: models.LevelBachelor,
		ProgramName:  "Computer Science",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var app models.ApplicationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	return app.ID
}

func uploadDocument(t *testing.T, server http.Handler, userID, appID uint, docType models.DocType) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "scan.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("file content"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("docType", string(docType)))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/applications/%d/documents", appID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-User-ID", strconv.FormatUint(uint64(userID), 10))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestAuthEndpoints(t *testing.T) {
	server := setupTestServer(t)

	userID := registerUser(t, server, "ada@example.com")
	assert.NotZero(t, userID)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/auth/login", 0, models.LoginRequest{
		Email: "ada@example.com", Password: "secret1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/api/v1/auth/login", 0, models.LoginRequest{
		Email: "ada@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProgrammesEndpointIsPublic(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/programmes?level=Master", 0, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Management of Information Systems")
	assert.Contains(t, rec.Body.String(), string(models.DocTypeMotivation))
}

func TestApplicationsRequireAuthentication(t *testing.T) {
	server := setupTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/applications", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateApplicationEndpoint(t *testing.T) {
	server := setupTestServer(t)
	userID := registerUser(t, server, "ada@example.com")

	appID := createApplication(t, server, userID)
	assert.NotZero(t, appID)

	// Same triple again conflicts
	rec := doJSON(t, server, http.MethodPost, "/api/v1/applications", userID, models.CreateApplicationRequest{
		ProgramLevel: models.LevelBachelor,
		ProgramName:  "Computer Science",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_APPLICATION")
}

func TestDocumentUploadAndProgress(t *testing.T) {
	server := setupTestServer(t)
	userID := registerUser(t, server, "ada@example.com")
	appID := createApplication(t, server, userID)

	rec := uploadDocument(t, server, userID, appID, models.DocTypePassport)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result models.UploadDocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "1/4 documents uploaded", result.ProgressText)
	assert.Equal(t, models.StatusInProgress, result.Status)
}

func TestSubmitIncompleteReportsMissingTypes(t *testing.T) {
	server := setupTestServer(t)
	userID := registerUser(t, server, "ada@example.com")
	appID := createApplication(t, server, userID)

	rec := doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/v1/applications/%d/submit", appID), userID, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INCOMPLETE_APPLICATION")
	assert.Contains(t, rec.Body.String(), "missingTypes")
	assert.Contains(t, rec.Body.String(), string(models.DocTypeEnglish))
}

func TestFullLifecycleOverHTTP(t *testing.T) {
	server := setupTestServer(t)
	applicant := registerUser(t, server, "ada@example.com")
	reviewer := registerUser(t, server, "rex@example.com")
	appID := createApplication(t, server, applicant)

	for _, docType := range []models.DocType{
		models.DocTypePassport, models.DocTypeDiploma, models.DocTypeTranscript, models.DocTypeEnglish,
	} {
		rec := uploadDocument(t, server, applicant, appID, docType)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/v1/applications/%d/submit", appID), applicant, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Documents are locked once submitted
	rec = uploadDocument(t, server, applicant, appID, models.DocTypeCV)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "APPLICATION_LOCKED")

	// The applicant cannot decide
	rec = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/v1/applications/%d/decisions", appID), applicant,
		models.RecordDecisionRequest{NewStatus: models.StatusApproved})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Rejection without a note is refused
	rec = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/v1/applications/%d/decisions", appID), reviewer,
		models.RecordDecisionRequest{NewStatus: models.StatusRejected})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_REJECTION_REASON")

	rec = doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/v1/applications/%d/decisions", appID), reviewer,
		models.RecordDecisionRequest{NewStatus: models.StatusApproved, Note: "welcome"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// The applicant sees the decision in the summary
	rec = doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/v1/applications/%d", appID), applicant, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.ApplicationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, models.StatusApproved, summary.Status)
	require.NotNil(t, summary.LatestDecision)
	assert.Equal(t, "welcome", summary.LatestDecision.Note)
}

func TestReviewerListsAllApplications(t *testing.T) {
	server := setupTestServer(t)
	applicant := registerUser(t, server, "ada@example.com")
	reviewer := registerUser(t, server, "rex@example.com")
	createApplication(t, server, applicant)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/applications?all=true", reviewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var collection models.CollectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	assert.Equal(t, 1, collection.Count)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/applications?all=true", applicant, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownRoutes(t *testing.T) {
	server := setupTestServer(t)
	userID := registerUser(t, server, "ada@example.com")

	rec := doJSON(t, server, http.MethodGet, "/api/v1/applications/not-a-number", userID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, server, http.MethodPatch, "/api/v1/applications", userID, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/applications/1/unknown", userID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
