package models

// Status represents the lifecycle status of an application.
// The wire strings match the values stored in the applications table.
type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusComplete   Status = "Complete"
	StatusSubmitted  Status = "Submitted"
	StatusApproved   Status = "Approved"
	StatusRejected   Status = "Rejected"
)

// AllStatuses lists every valid application status
var AllStatuses = []Status{
	StatusInProgress,
	StatusComplete,
	StatusSubmitted,
	StatusApproved,
	StatusRejected,
}

// IsValid checks if the status is one of the five known values
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Locked reports whether the status locks documents against applicant
// mutation. Submitted and every reviewer-set state after it lock the
// application; only a reviewer decision can unlock it again.
func (s Status) Locked() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Level represents a degree programme level
type Level string

const (
	LevelBachelor Level = "Bachelor"
	LevelMaster   Level = "Master"
)

// IsValid checks if the level is known
func (l Level) IsValid() bool {
	return l == LevelBachelor || l == LevelMaster
}

// DocType represents a required document type
type DocType string

// Document types offered by the portal
const (
	DocTypePassport   DocType = "Passport/ID"
	DocTypeDiploma    DocType = "Diploma/Certificate"
	DocTypeTranscript DocType = "Transcript"
	DocTypeEnglish    DocType = "English Proficiency"
	DocTypeMotivation DocType = "Motivation Letter"
	DocTypeCV         DocType = "CV/Resume"
)

// Field length constraints
const (
	MaxNameLength  = 255
	MaxEmailLength = 320 // RFC 3696 specification
	MaxNoteLength  = 2000
)
