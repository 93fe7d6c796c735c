package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/WatermalonExp/student-ai-portal/pkg/errors"
	"github.com/WatermalonExp/student-ai-portal/v1/catalog"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"gorm.io/gorm"
)

// AuthorizationGate answers reviewer capability checks. The state machine
// consults it before any reviewer-only operation instead of trusting the
// caller's claimed role.
type AuthorizationGate interface {
	IsReviewer(userID uint) bool
}

// ApplicationService is the application lifecycle state machine. Every status
// change flows through it: document mutations recompute the derived status in
// the same transaction as the mutation, submit checks completeness at the
// moment of submission, and reviewer decisions append to the ledger and move
// the status atomically.
type ApplicationService struct {
	db        *gorm.DB
	catalog   *catalog.Catalog
	documents *DocumentService
	decisions *DecisionService
	files     FileStore
	authz     AuthorizationGate
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(db *gorm.DB, cat *catalog.Catalog, documents *DocumentService, decisions *DecisionService, files FileStore, authz AuthorizationGate) *ApplicationService {
	return &ApplicationService{
		db:        db,
		catalog:   cat,
		documents: documents,
		decisions: decisions,
		files:     files,
		authz:     authz,
	}
}

// CreateApplication opens a new application after validating the programme
// against the catalog and rejecting duplicates for the same triple.
func (s *ApplicationService) CreateApplication(userID uint, req *models.CreateApplicationRequest) (*models.ApplicationResponse, error) {
	if userID == 0 {
		return nil, apperrors.NotAuthenticatedError()
	}
	if !req.ProgramLevel.IsValid() {
		return nil, apperrors.InvalidLevelError(string(req.ProgramLevel))
	}
	programme := strings.TrimSpace(req.ProgramName)
	if !s.catalog.Offers(req.ProgramLevel, programme) {
		return nil, apperrors.InvalidProgrammeError(string(req.ProgramLevel), programme)
	}

	var existing models.Application
	err := s.db.Where("user_id = ? AND program_level = ? AND program_name = ?",
		userID, req.ProgramLevel, programme).First(&existing).Error
	if err == nil {
		return nil, apperrors.DuplicateApplicationError(string(req.ProgramLevel), programme)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.DatabaseError("find application", err)
	}

	app := &models.Application{
		UserID:       userID,
		ProgramLevel: req.ProgramLevel,
		ProgramName:  programme,
		Status:       models.StatusInProgress,
	}
	if err := s.db.Create(app).Error; err != nil {
		return nil, apperrors.DatabaseError("create application", err)
	}

	slog.Info("Application created", "applicationId", app.ID, "userId", userID,
		"level", req.ProgramLevel, "programme", programme)

	return applicationToResponse(app), nil
}

// GetApplications returns the caller's applications, newest first
func (s *ApplicationService) GetApplications(userID uint) ([]models.ApplicationResponse, error) {
	if userID == 0 {
		return nil, apperrors.NotAuthenticatedError()
	}
	var apps []models.Application
	if err := s.db.Where("user_id = ?", userID).Order("id DESC").Find(&apps).Error; err != nil {
		return nil, apperrors.DatabaseError("list applications", err)
	}
	responses := make([]models.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, *applicationToResponse(&apps[i]))
	}
	return responses, nil
}

// GetAllApplications returns every application in the portal. Reviewer only.
func (s *ApplicationService) GetAllApplications(reviewerID uint) ([]models.ApplicationResponse, error) {
	if reviewerID == 0 {
		return nil, apperrors.NotAuthenticatedError()
	}
	if !s.authz.IsReviewer(reviewerID) {
		return nil, apperrors.NotAuthorizedError()
	}
	var apps []models.Application
	if err := s.db.Order("id DESC").Find(&apps).Error; err != nil {
		return nil, apperrors.DatabaseError("list applications", err)
	}
	responses := make([]models.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, *applicationToResponse(&apps[i]))
	}
	return responses, nil
}

// GetSummary returns the application with its completeness view and latest
// decision. Read-only: the stored status is reported as-is, never rewritten
// on a read path.
func (s *ApplicationService) GetSummary(userID, applicationID uint) (*models.ApplicationSummary, error) {
	app, err := s.loadOwnedApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}

	required, err := s.catalog.RequiredDocuments(app.ProgramLevel)
	if err != nil {
		return nil, err
	}

	docs, err := s.documents.List(app.ID)
	if err != nil {
		return nil, err
	}

	completeness := Evaluate(required, docs)

	summary := &models.ApplicationSummary{
		ID:            app.ID,
		ProgramLevel:  app.ProgramLevel,
		ProgramName:   app.ProgramName,
		Status:        app.Status,
		RequiredTypes: required,
		UploadedTypes: completeness.UploadedTypes,
		MissingTypes:  completeness.MissingTypes,
		ProgressText:  completeness.ProgressText,
		Documents:     make([]models.DocumentResponse, 0, len(docs)),
	}
	for i := range docs {
		summary.Documents = append(summary.Documents, documentToResponse(&docs[i]))
	}

	latest, err := s.decisions.Latest(app.ID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		summary.LatestDecision = &models.DecisionResponse{
			NewStatus: latest.NewStatus,
			Note:      latest.Note,
			DecidedAt: latest.CreatedAt.Format(time.RFC3339),
		}
	}

	return summary, nil
}

// UploadDocument stores the file, inserts the row and recomputes the derived
// status, row and status in one transaction. If the file cannot be stored no
// row appears; if the row cannot be inserted the stored file is removed.
func (s *ApplicationService) UploadDocument(userID, applicationID uint, docType models.DocType, filename string, src io.Reader) (*models.UploadDocumentResponse, error) {
	app, err := s.loadOwnedApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status.Locked() {
		return nil, apperrors.ApplicationLockedError(string(app.Status))
	}
	if strings.TrimSpace(string(docType)) == "" || strings.TrimSpace(filename) == "" {
		return nil, apperrors.ValidationError("MISSING_FIELDS", "document type and filename are required")
	}

	required, err := s.catalog.RequiredDocuments(app.ProgramLevel)
	if err != nil {
		return nil, err
	}

	storageRef, err := s.files.Save(src, fmt.Sprintf("app_%d/%s", app.ID, filename))
	if err != nil {
		return nil, apperrors.StorageError("save upload", err)
	}

	var doc *models.Document
	var completeness Completeness
	err = s.db.Transaction(func(tx *gorm.DB) error {
		doc, err = s.documents.withDB(tx).Add(app.ID, docType, filename, storageRef)
		if err != nil {
			return err
		}
		docs, err := s.documents.withDB(tx).List(app.ID)
		if err != nil {
			return err
		}
		completeness = Evaluate(required, docs)
		return s.persistDerivedStatus(tx, app, completeness.DerivedStatus)
	})
	if err != nil {
		// Row never landed, the stored file must not outlive it
		s.files.Delete(storageRef)
		return nil, err
	}

	slog.Info("Document uploaded", "applicationId", app.ID, "documentId", doc.ID,
		"docType", docType, "status", app.Status)

	return &models.UploadDocumentResponse{
		DocumentID:   doc.ID,
		ProgressText: completeness.ProgressText,
		Status:       app.Status,
	}, nil
}

// ListDocuments returns the application's documents, newest first
func (s *ApplicationService) ListDocuments(userID, applicationID uint) ([]models.DocumentResponse, error) {
	app, err := s.loadOwnedApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.List(app.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]models.DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, documentToResponse(&docs[i]))
	}
	return responses, nil
}

// DeleteDocument removes one document and recomputes the derived status.
// An unknown document id is reported as zero deletions, not an error.
func (s *ApplicationService) DeleteDocument(userID, applicationID, documentID uint) (*models.DeleteDocumentsResponse, error) {
	return s.deleteDocuments(userID, applicationID, func(docs *DocumentService) (int, error) {
		ok, err := docs.Delete(applicationID, documentID)
		if err != nil {
			return 0, err
		}
		if ok {
			return 1, nil
		}
		return 0, nil
	})
}

// DeleteAllDocuments removes every document of the application and recomputes
// the derived status
func (s *ApplicationService) DeleteAllDocuments(userID, applicationID uint) (*models.DeleteDocumentsResponse, error) {
	return s.deleteDocuments(userID, applicationID, func(docs *DocumentService) (int, error) {
		return docs.DeleteAll(applicationID)
	})
}

func (s *ApplicationService) deleteDocuments(userID, applicationID uint, remove func(docs *DocumentService) (int, error)) (*models.DeleteDocumentsResponse, error) {
	app, err := s.loadOwnedApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status.Locked() {
		return nil, apperrors.ApplicationLockedError(string(app.Status))
	}

	required, err := s.catalog.RequiredDocuments(app.ProgramLevel)
	if err != nil {
		return nil, err
	}

	var deleted int
	var completeness Completeness
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txDocs := s.documents.withDB(tx)
		deleted, err = remove(txDocs)
		if err != nil {
			return err
		}
		docs, err := txDocs.List(app.ID)
		if err != nil {
			return err
		}
		completeness = Evaluate(required, docs)
		return s.persistDerivedStatus(tx, app, completeness.DerivedStatus)
	})
	if err != nil {
		return nil, err
	}

	if deleted > 0 {
		slog.Info("Documents deleted", "applicationId", app.ID, "deleted", deleted, "status", app.Status)
	}

	return &models.DeleteDocumentsResponse{
		Deleted:      deleted,
		ProgressText: completeness.ProgressText,
		Status:       app.Status,
	}, nil
}

// Submit moves the application to Submitted when its required set is
// complete. Submitting an already-submitted application is a no-op; a
// reviewer-decided application cannot be resubmitted.
func (s *ApplicationService) Submit(userID, applicationID uint) (*models.SubmitResponse, error) {
	app, err := s.loadOwnedApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}

	if app.Status == models.StatusSubmitted {
		return &models.SubmitResponse{Message: "already submitted", Status: app.Status}, nil
	}
	if app.Status.Locked() {
		return nil, apperrors.ApplicationLockedError(string(app.Status))
	}

	required, err := s.catalog.RequiredDocuments(app.ProgramLevel)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.List(app.ID)
	if err != nil {
		return nil, err
	}

	completeness := Evaluate(required, docs)
	if completeness.DerivedStatus != models.StatusComplete {
		missing := make([]string, 0, len(completeness.MissingTypes))
		for _, docType := range completeness.MissingTypes {
			missing = append(missing, string(docType))
		}
		return nil, apperrors.NewIncompleteApplicationError(missing)
	}

	if err := s.updateStatus(s.db, app, models.StatusSubmitted); err != nil {
		return nil, err
	}

	slog.Info("Application submitted", "applicationId", app.ID, "userId", userID)

	return &models.SubmitResponse{Message: "application submitted", Status: app.Status}, nil
}

// RecordDecision appends a reviewer decision and moves the application status
// in one transaction. A Rejected decision without a note fails before
// anything is persisted.
func (s *ApplicationService) RecordDecision(reviewerID, applicationID uint, req *models.RecordDecisionRequest) (*models.DecisionResponse, error) {
	if reviewerID == 0 {
		return nil, apperrors.NotAuthenticatedError()
	}
	if !s.authz.IsReviewer(reviewerID) {
		return nil, apperrors.NotAuthorizedError()
	}

	var app models.Application
	if err := s.db.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("application")
		}
		return nil, apperrors.DatabaseError("find application", err)
	}

	if !req.NewStatus.IsValid() {
		return nil, apperrors.ValidationError("INVALID_STATUS",
			fmt.Sprintf("unknown status %q", string(req.NewStatus)))
	}

	note := strings.TrimSpace(req.Note)
	if req.NewStatus == models.StatusRejected && note == "" {
		return nil, apperrors.MissingRejectionReasonError()
	}
	if len(note) > models.MaxNoteLength {
		return nil, apperrors.ValidationError("NOTE_TOO_LONG", "decision note exceeds the allowed length")
	}

	var decision *models.Decision
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		decision, err = s.decisions.withDB(tx).Append(app.ID, reviewerID, req.NewStatus, note)
		if err != nil {
			return err
		}
		return s.updateStatus(tx, &app, req.NewStatus)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Decision recorded", "applicationId", app.ID, "reviewerId", reviewerID,
		"newStatus", req.NewStatus)

	return &models.DecisionResponse{
		NewStatus: decision.NewStatus,
		Note:      decision.Note,
		DecidedAt: decision.CreatedAt.Format(time.RFC3339),
	}, nil
}

// loadOwnedApplication fetches an application and checks the caller may act
// on it. Reviewers may read any application; applicants only their own.
func (s *ApplicationService) loadOwnedApplication(userID, applicationID uint) (*models.Application, error) {
	if userID == 0 {
		return nil, apperrors.NotAuthenticatedError()
	}

	var app models.Application
	if err := s.db.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("application")
		}
		return nil, apperrors.DatabaseError("find application", err)
	}

	if app.UserID != userID && !s.authz.IsReviewer(userID) {
		return nil, apperrors.NotFoundError("application")
	}
	return &app, nil
}

// persistDerivedStatus writes a recomputed In Progress/Complete status.
// Locked states are never touched here; callers check the lock first.
func (s *ApplicationService) persistDerivedStatus(tx *gorm.DB, app *models.Application, derived models.Status) error {
	if app.Status == derived {
		return nil
	}
	return s.updateStatus(tx, app, derived)
}

func (s *ApplicationService) updateStatus(db *gorm.DB, app *models.Application, status models.Status) error {
	if err := db.Model(&models.Application{}).Where("id = ?", app.ID).
		Update("status", status).Error; err != nil {
		return apperrors.DatabaseError("update application status", err)
	}
	app.Status = status
	return nil
}

func applicationToResponse(app *models.Application) *models.ApplicationResponse {
	return &models.ApplicationResponse{
		ID:           app.ID,
		UserID:       app.UserID,
		ProgramLevel: app.ProgramLevel,
		ProgramName:  app.ProgramName,
		Status:       app.Status,
		CreatedAt:    app.CreatedAt.Format(time.RFC3339),
	}
}

func documentToResponse(doc *models.Document) models.DocumentResponse {
	return models.DocumentResponse{
		ID:               doc.ID,
		DocType:          doc.DocType,
		OriginalFilename: doc.OriginalFilename,
		UploadedAt:       doc.CreatedAt.Format(time.RFC3339),
	}
}
