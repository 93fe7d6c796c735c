package services

import (
	"errors"

	apperrors "github.com/WatermalonExp/student-ai-portal/pkg/errors"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"gorm.io/gorm"
)

// DocumentService owns the document rows of an application and the files
// behind them. The row is the source of truth; file removal is best-effort.
type DocumentService struct {
	db    *gorm.DB
	files FileStore
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(db *gorm.DB, files FileStore) *DocumentService {
	return &DocumentService{db: db, files: files}
}

// withDB returns a copy bound to another handle, used to scope document
// operations to an enclosing transaction.
func (s *DocumentService) withDB(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db, files: s.files}
}

// Add inserts a document row for an already-stored file
func (s *DocumentService) Add(applicationID uint, docType models.DocType, originalFilename, storageRef string) (*models.Document, error) {
	doc := &models.Document{
		ApplicationID:    applicationID,
		DocType:          docType,
		OriginalFilename: originalFilename,
		StorageRef:       storageRef,
	}
	if err := s.db.Create(doc).Error; err != nil {
		return nil, apperrors.DatabaseError("create document", err)
	}
	return doc, nil
}

// List returns an application's documents, newest first
func (s *DocumentService) List(applicationID uint) ([]models.Document, error) {
	var docs []models.Document
	if err := s.db.Where("application_id = ?", applicationID).Order("id DESC").Find(&docs).Error; err != nil {
		return nil, apperrors.DatabaseError("list documents", err)
	}
	return docs, nil
}

// Delete removes one document row scoped to its application and then the
// file behind it. An unknown document id reports found=false, not an error.
// The file delete happens after the row is gone; a failed file delete never
// undoes the row.
func (s *DocumentService) Delete(applicationID, documentID uint) (bool, error) {
	var doc models.Document
	err := s.db.Where("id = ? AND application_id = ?", documentID, applicationID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.DatabaseError("find document", err)
	}

	if err := s.db.Delete(&models.Document{}, doc.ID).Error; err != nil {
		return false, apperrors.DatabaseError("delete document", err)
	}

	s.files.Delete(doc.StorageRef)
	return true, nil
}

// DeleteAll removes every document row of an application and returns how many
// rows were removed. Files are cleaned up best-effort after each row delete.
func (s *DocumentService) DeleteAll(applicationID uint) (int, error) {
	docs, err := s.List(applicationID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, doc := range docs {
		ok, err := s.Delete(applicationID, doc.ID)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}
