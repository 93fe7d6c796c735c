package models

// CreateApplicationRequest is the payload for opening a new application
type CreateApplicationRequest struct {
	ProgramLevel Level  `json:"programLevel"`
	ProgramName  string `json:"programName"`
}

// ApplicationResponse is the applicant-facing view of an application
type ApplicationResponse struct {
	ID           uint   `json:"id"`
	UserID       uint   `json:"userId,omitempty"`
	ProgramLevel Level  `json:"programLevel"`
	ProgramName  string `json:"programName"`
	Status       Status `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

// DocumentResponse is one uploaded document as listed to the applicant
type DocumentResponse struct {
	ID               uint    `json:"id"`
	DocType          DocType `json:"docType"`
	OriginalFilename string  `json:"originalFilename"`
	UploadedAt       string  `json:"uploadedAt"`
}

// DecisionResponse is the latest reviewer decision surfaced to the applicant
type DecisionResponse struct {
	NewStatus Status `json:"newStatus"`
	Note      string `json:"note"`
	DecidedAt string `json:"decidedAt"`
}

// ApplicationSummary combines the application row with its completeness view
type ApplicationSummary struct {
	ID             uint               `json:"id"`
	ProgramLevel   Level              `json:"programLevel"`
	ProgramName    string             `json:"programName"`
	Status         Status             `json:"status"`
	RequiredTypes  []DocType          `json:"requiredTypes"`
	UploadedTypes  []DocType          `json:"uploadedTypes"`
	MissingTypes   []DocType          `json:"missingTypes"`
	ProgressText   string             `json:"progressText"`
	Documents      []DocumentResponse `json:"documents"`
	LatestDecision *DecisionResponse  `json:"latestDecision,omitempty"`
}

// SubmitResponse reports the outcome of a submit attempt
type SubmitResponse struct {
	Message string `json:"message"`
	Status  Status `json:"status"`
}

// UploadDocumentResponse reports a stored document plus the recomputed progress
type UploadDocumentResponse struct {
	DocumentID   uint   `json:"documentId"`
	ProgressText string `json:"progressText"`
	Status       Status `json:"status"`
}

// DeleteDocumentsResponse reports how many rows a delete-all removed
type DeleteDocumentsResponse struct {
	Deleted      int    `json:"deleted"`
	ProgressText string `json:"progressText"`
	Status       Status `json:"status"`
}

// RecordDecisionRequest is the reviewer payload for a decision
type RecordDecisionRequest struct {
	NewStatus Status `json:"newStatus"`
	Note      string `json:"note"`
}

// RegisterRequest is the payload for creating a portal account
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for authenticating
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse identifies the authenticated user
type AuthResponse struct {
	UserID   uint   `json:"userId"`
	Email    string `json:"email"`
	Reviewer bool   `json:"reviewer"`
}

// ChatRequest is one portal assistant message with optional application context
type ChatRequest struct {
	Message       string `json:"message"`
	ApplicationID *uint  `json:"applicationId,omitempty"`
}

// ChatResponse is the assistant's reply
type ChatResponse struct {
	Reply string `json:"reply"`
}

// CollectionResponse wraps list results
type CollectionResponse struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
}
