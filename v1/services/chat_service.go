package services

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/WatermalonExp/student-ai-portal/pkg/errors"
	"github.com/WatermalonExp/student-ai-portal/v1/catalog"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
)

// ChatService turns chat messages into portal actions. Structured intents are
// answered from portal state; everything else goes to the assistant with the
// selected application injected as context. Destructive intents route through
// the lifecycle service so submission locks hold in chat exactly as they do
// over the API.
type ChatService struct {
	applications *ApplicationService
	catalog      *catalog.Catalog
	assistant    Assistant
}

// NewChatService creates a new ChatService
func NewChatService(applications *ApplicationService, cat *catalog.Catalog, assistant Assistant) *ChatService {
	return &ChatService{applications: applications, catalog: cat, assistant: assistant}
}

// Respond handles one chat message for an authenticated user
func (s *ChatService) Respond(ctx context.Context, userID uint, req *models.ChatRequest) (*models.ChatResponse, error) {
	if userID == 0 {
		return nil, apperrors.NotAuthenticatedError()
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return &models.ChatResponse{Reply: "Type a message."}, nil
	}

	switch DetectIntent(message) {
	case IntentListApps:
		return s.listApplications(userID)
	case IntentMissingDocs:
		return s.missingDocuments(userID, req.ApplicationID)
	case IntentDeleteAllDocs:
		return s.deleteAllDocuments(userID, req.ApplicationID)
	case IntentDeleteDocByID:
		return s.deleteDocumentByID(userID, req.ApplicationID, message)
	case IntentDeleteDoc:
		return &models.ChatResponse{Reply: "Tell me the document id, e.g. 'delete doc id 12', or say 'delete all documents'."}, nil
	case IntentRequirements:
		return s.requirements(userID, req.ApplicationID)
	case IntentReqsAllApps:
		return s.requirementsForAll(userID)
	}

	return s.general(ctx, userID, req.ApplicationID, message)
}

func (s *ChatService) listApplications(userID uint) (*models.ChatResponse, error) {
	apps, err := s.applications.GetApplications(userID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return &models.ChatResponse{Reply: "You don't have any applications yet."}, nil
	}
	var b strings.Builder
	b.WriteString("Your applications:\n")
	for _, app := range apps {
		fmt.Fprintf(&b, "- (#%d) [%s] %s, %s\n", app.ID, app.ProgramLevel, app.ProgramName, app.Status)
	}
	return &models.ChatResponse{Reply: strings.TrimRight(b.String(), "\n")}, nil
}

func (s *ChatService) missingDocuments(userID uint, applicationID *uint) (*models.ChatResponse, error) {
	if applicationID == nil {
		return &models.ChatResponse{Reply: "Select an application first."}, nil
	}
	summary, err := s.applications.GetSummary(userID, *applicationID)
	if err != nil {
		return nil, err
	}
	if len(summary.MissingTypes) == 0 {
		return &models.ChatResponse{Reply: "All required documents are uploaded."}, nil
	}
	var b strings.Builder
	b.WriteString("You are missing:\n")
	for _, docType := range summary.MissingTypes {
		fmt.Fprintf(&b, "- %s\n", docType)
	}
	return &models.ChatResponse{Reply: strings.TrimRight(b.String(), "\n")}, nil
}

func (s *ChatService) deleteAllDocuments(userID uint, applicationID *uint) (*models.ChatResponse, error) {
	if applicationID == nil {
		return &models.ChatResponse{Reply: "Select an application first."}, nil
	}
	result, err := s.applications.DeleteAllDocuments(userID, *applicationID)
	if err != nil {
		if apperrors.HasCode(err, "APPLICATION_LOCKED") {
			return &models.ChatResponse{Reply: "This application is submitted. Document deletion is locked."}, nil
		}
		return nil, err
	}
	return &models.ChatResponse{
		Reply: fmt.Sprintf("Deleted %d document(s) for application #%d.", result.Deleted, *applicationID),
	}, nil
}

func (s *ChatService) deleteDocumentByID(userID uint, applicationID *uint, message string) (*models.ChatResponse, error) {
	if applicationID == nil {
		return &models.ChatResponse{Reply: "Select an application first."}, nil
	}
	documentID := ExtractDocumentID(message)
	if documentID == 0 {
		return &models.ChatResponse{Reply: "Tell me the document id, e.g. 'delete doc id 12'."}, nil
	}
	result, err := s.applications.DeleteDocument(userID, *applicationID, documentID)
	if err != nil {
		if apperrors.HasCode(err, "APPLICATION_LOCKED") {
			return &models.ChatResponse{Reply: "This application is submitted. Document deletion is locked."}, nil
		}
		return nil, err
	}
	if result.Deleted == 0 {
		return &models.ChatResponse{Reply: "Document not found."}, nil
	}
	return &models.ChatResponse{Reply: "Deleted."}, nil
}

func (s *ChatService) requirements(userID uint, applicationID *uint) (*models.ChatResponse, error) {
	if applicationID == nil {
		return s.requirementsForAll(userID)
	}
	summary, err := s.applications.GetSummary(userID, *applicationID)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Required documents for %s (%s):\n", summary.ProgramName, summary.ProgramLevel)
	for _, docType := range summary.RequiredTypes {
		fmt.Fprintf(&b, "- %s\n", docType)
	}
	return &models.ChatResponse{Reply: strings.TrimRight(b.String(), "\n")}, nil
}

func (s *ChatService) requirementsForAll(userID uint) (*models.ChatResponse, error) {
	apps, err := s.applications.GetApplications(userID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return &models.ChatResponse{Reply: "You don't have any applications yet."}, nil
	}
	var b strings.Builder
	for _, app := range apps {
		required, err := s.catalog.RequiredDocuments(app.ProgramLevel)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "(#%d) [%s] %s:\n", app.ID, app.ProgramLevel, app.ProgramName)
		for _, docType := range required {
			fmt.Fprintf(&b, "- %s\n", docType)
		}
	}
	return &models.ChatResponse{Reply: strings.TrimRight(b.String(), "\n")}, nil
}

func (s *ChatService) general(ctx context.Context, userID uint, applicationID *uint, message string) (*models.ChatResponse, error) {
	var contextBlock string
	if applicationID != nil {
		summary, err := s.applications.GetSummary(userID, *applicationID)
		if err == nil {
			var b strings.Builder
			b.WriteString("\nApplication context:\n")
			fmt.Fprintf(&b, "- Application ID: %d\n", summary.ID)
			fmt.Fprintf(&b, "- Level: %s\n", summary.ProgramLevel)
			fmt.Fprintf(&b, "- Programme: %s\n", summary.ProgramName)
			fmt.Fprintf(&b, "- Status: %s\n", summary.Status)
			fmt.Fprintf(&b, "- Uploaded: %v\n", summary.UploadedTypes)
			fmt.Fprintf(&b, "- Missing: %v\n", summary.MissingTypes)
			if summary.LatestDecision != nil {
				fmt.Fprintf(&b, "- Latest decision: %s / %s / %s\n",
					summary.LatestDecision.DecidedAt,
					summary.LatestDecision.NewStatus,
					summary.LatestDecision.Note)
			}
			contextBlock = b.String()
		}
	}

	prompt := "You are a helpful admissions assistant for a student application portal.\n" +
		"Use the application context if provided.\n" +
		contextBlock + "\nUser: " + message + "\nAssistant:"

	reply, err := s.assistant.Answer(ctx, prompt)
	if err != nil {
		return nil, apperrors.NewAPIErrorWithCause(apperrors.ErrorTypeInternal, "ASSISTANT_UNAVAILABLE",
			"the assistant is unavailable right now", 502, err)
	}
	return &models.ChatResponse{Reply: reply}, nil
}
