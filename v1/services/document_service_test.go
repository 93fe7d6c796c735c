package services

import (
	"strings"
	"testing"

	"github.com/WatermalonExp/student-ai-portal/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_AddAndList(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	files := newMemoryFileStore()
	service := NewDocumentService(db, files)

	first, err := service.Add(1, models.DocTypePassport, "passport.pdf", "mem://1/passport.pdf")
	require.NoError(t, err)
	second, err := service.Add(1, models.DocTypeTranscript, "transcript.pdf", "mem://2/transcript.pdf")
	require.NoError(t, err)
	_, err = service.Add(2, models.DocTypePassport, "other.pdf", "mem://3/other.pdf")
	require.NoError(t, err)

	docs, err := service.List(1)
	require.NoError(t, err)

	// Newest first, scoped to the application
	require.Len(t, docs, 2)
	assert.Equal(t, second.ID, docs[0].ID)
	assert.Equal(t, first.ID, docs[1].ID)
}

func TestDocumentService_Delete(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	files := newMemoryFileStore()
	service := NewDocumentService(db, files)

	ref, err := files.Save(strings.NewReader("content"), "app_1/passport.pdf")
	require.NoError(t, err)
	doc, err := service.Add(1, models.DocTypePassport, "passport.pdf", ref)
	require.NoError(t, err)

	found, err := service.Delete(1, doc.ID)
	require.NoError(t, err)

	assert.True(t, found)
	assert.Empty(t, files.saved)

	docs, err := service.List(1)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentService_DeleteScopedToApplication(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	files := newMemoryFileStore()
	service := NewDocumentService(db, files)

	doc, err := service.Add(1, models.DocTypePassport, "passport.pdf", "mem://1/passport.pdf")
	require.NoError(t, err)

	// Another application cannot reach the row
	found, err := service.Delete(2, doc.ID)
	require.NoError(t, err)
	assert.False(t, found)

	docs, err := service.List(1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentService_DeleteUnknownID(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewDocumentService(db, newMemoryFileStore())

	found, err := service.Delete(1, 4242)

	assert.NoError(t, err)
	assert.False(t, found)
}

func TestDocumentService_DeleteAll(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	files := newMemoryFileStore()
	service := NewDocumentService(db, files)

	for _, docType := range []models.DocType{models.DocTypePassport, models.DocTypePassport, models.DocTypeCV} {
		_, err := service.Add(1, docType, "scan.pdf", "mem://x/scan.pdf")
		require.NoError(t, err)
	}
	_, err := service.Add(2, models.DocTypePassport, "keep.pdf", "mem://y/keep.pdf")
	require.NoError(t, err)

	deleted, err := service.DeleteAll(1)
	require.NoError(t, err)

	assert.Equal(t, 3, deleted)

	remaining, err := service.List(2)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
