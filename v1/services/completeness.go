package services

import (
	"fmt"
	"sort"

	"github.com/WatermalonExp/student-ai-portal/v1/models"
)

// Completeness is the derived document-completeness view of an application
type Completeness struct {
	UploadedTypes []models.DocType
	MissingTypes  []models.DocType
	ProgressText  string
	DerivedStatus models.Status
}

// Evaluate computes completeness from the required set and the uploaded
// documents. Duplicate uploads of the same type count once; MissingTypes
// keeps the required-set order. The derived status is only ever
// In Progress or Complete; Submitted and the reviewer states are set
// elsewhere, never derived.
func Evaluate(required []models.DocType, docs []models.Document) Completeness {
	present := make(map[models.DocType]bool, len(docs))
	for _, doc := range docs {
		present[doc.DocType] = true
	}

	uploaded := make([]models.DocType, 0, len(present))
	for docType := range present {
		uploaded = append(uploaded, docType)
	}
	sort.Slice(uploaded, func(i, j int) bool { return uploaded[i] < uploaded[j] })

	missing := make([]models.DocType, 0, len(required))
	for _, docType := range required {
		if !present[docType] {
			missing = append(missing, docType)
		}
	}

	status := models.StatusComplete
	if len(missing) > 0 {
		status = models.StatusInProgress
	}

	return Completeness{
		UploadedTypes: uploaded,
		MissingTypes:  missing,
		ProgressText:  fmt.Sprintf("%d/%d documents uploaded", len(uploaded), len(required)),
		DerivedStatus: status,
	}
}
