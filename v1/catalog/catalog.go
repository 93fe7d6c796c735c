package catalog

import (
	apperrors "github.com/WatermalonExp/student-ai-portal/pkg/errors"
	"github.com/WatermalonExp/student-ai-portal/v1/models"
)

// Catalog is the immutable programme registry: valid programme names and the
// ordered required-document set per level. Construct it once and inject it;
// nothing mutates it after construction.
type Catalog struct {
	programmes   map[models.Level][]string
	requiredDocs map[models.Level][]models.DocType
}

// New builds a catalog from explicit per-level data. Callers pass their own
// slices; the catalog copies them so later mutation cannot leak in.
func New(programmes map[models.Level][]string, requiredDocs map[models.Level][]models.DocType) *Catalog {
	c := &Catalog{
		programmes:   make(map[models.Level][]string, len(programmes)),
		requiredDocs: make(map[models.Level][]models.DocType, len(requiredDocs)),
	}
	for level, names := range programmes {
		c.programmes[level] = append([]string(nil), names...)
	}
	for level, docs := range requiredDocs {
		c.requiredDocs[level] = append([]models.DocType(nil), docs...)
	}
	return c
}

// Default returns the catalog the portal ships with
func Default() *Catalog {
	return New(
		map[models.Level][]string{
			models.LevelBachelor: {
				"Double Degree in Computer Science: Artificial Intelligence",
				"Computer Science",
				"Robotics",
				"Computer Engineering and Electronics",
				"Aviation Engineering",
				"Transport and Logistics",
				"Business and Management",
			},
			models.LevelMaster: {
				"New! Double Degree in Management of Information Systems: IT Project Management",
				"Double Degree in Computer Science: Data Analytics and Artificial Intelligence",
				"Double degree in Aviation Management",
				"Computer Science: Software Engineering",
				"Management of Information Systems",
				"Computer Engineering and Electronics",
				"Business and Management",
				"Intelligent Transport and Smart Logistics",
			},
		},
		map[models.Level][]models.DocType{
			models.LevelBachelor: {
				models.DocTypePassport,
				models.DocTypeDiploma,
				models.DocTypeTranscript,
				models.DocTypeEnglish,
			},
			models.LevelMaster: {
				models.DocTypePassport,
				models.DocTypeDiploma,
				models.DocTypeTranscript,
				models.DocTypeEnglish,
				models.DocTypeMotivation,
				models.DocTypeCV,
			},
		},
	)
}

// ProgrammesFor returns the ordered programme names for a level
func (c *Catalog) ProgrammesFor(level models.Level) ([]string, error) {
	names, ok := c.programmes[level]
	if !ok {
		return nil, apperrors.InvalidLevelError(string(level))
	}
	return append([]string(nil), names...), nil
}

// RequiredDocuments returns the ordered required document types for a level
func (c *Catalog) RequiredDocuments(level models.Level) ([]models.DocType, error) {
	docs, ok := c.requiredDocs[level]
	if !ok {
		return nil, apperrors.InvalidLevelError(string(level))
	}
	return append([]models.DocType(nil), docs...), nil
}

// Offers reports whether a programme name belongs to the catalog for its level
func (c *Catalog) Offers(level models.Level, programme string) bool {
	for _, name := range c.programmes[level] {
		if name == programme {
			return true
		}
	}
	return false
}
