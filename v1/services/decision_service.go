package services

import (
	"errors"

	apperrors "github.com/WatermalonExp/student-ai-portal/pkg/errors"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"gorm.io/gorm"
)

// DecisionService owns the append-only decision ledger. Rows are inserted,
// never updated or deleted.
type DecisionService struct {
	db *gorm.DB
}

// NewDecisionService creates a new DecisionService
func NewDecisionService(db *gorm.DB) *DecisionService {
	return &DecisionService{db: db}
}

func (s *DecisionService) withDB(db *gorm.DB) *DecisionService {
	return &DecisionService{db: db}
}

// Append records one reviewer decision
func (s *DecisionService) Append(applicationID, reviewerID uint, newStatus models.Status, note string) (*models.Decision, error) {
	decision := &models.Decision{
		ApplicationID: applicationID,
		ReviewerID:    reviewerID,
		NewStatus:     newStatus,
		Note:          note,
	}
	if err := s.db.Create(decision).Error; err != nil {
		return nil, apperrors.DatabaseError("create decision", err)
	}
	return decision, nil
}

// Latest returns the newest decision for an application, or nil when the
// ledger has no rows for it yet
func (s *DecisionService) Latest(applicationID uint) (*models.Decision, error) {
	var decision models.Decision
	err := s.db.Where("application_id = ?", applicationID).Order("id DESC").First(&decision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.DatabaseError("find latest decision", err)
	}
	return &decision, nil
}

// History returns every decision for an application, newest first
func (s *DecisionService) History(applicationID uint) ([]models.Decision, error) {
	var decisions []models.Decision
	if err := s.db.Where("application_id = ?", applicationID).Order("id DESC").Find(&decisions).Error; err != nil {
		return nil, apperrors.DatabaseError("list decisions", err)
	}
	return decisions, nil
}
