package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected Intent
	}{
		{"missing docs", "what am i missing?", IntentMissingDocs},
		{"remaining docs", "what is remaining for my application", IntentMissingDocs},
		{"reqs for all apps", "show requirements for each application", IntentReqsAllApps},
		{"list apps", "show applications please", IntentListApps},
		{"list apps question", "what did i apply to?", IntentListApps},
		{"delete by id", "delete document id 12", IntentDeleteDocByID},
		{"delete by hash id", "remove file #7", IntentDeleteDocByID},
		{"delete all", "delete all my documents", IntentDeleteAllDocs},
		{"delete vague", "remove my passport", IntentDeleteDoc},
		{"requirements", "what documents do i need to provide", IntentRequirements},
		{"general", "tell me about student housing", IntentGeneral},
		{"empty", "", IntentGeneral},
		{"case insensitive", "DELETE ALL MY DOCUMENTS", IntentDeleteAllDocs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectIntent(tt.message))
		})
	}
}

func TestDetectIntent_MissingWinsOverDelete(t *testing.T) {
	// Priority order: missing-docs keywords are checked before delete
	assert.Equal(t, IntentMissingDocs, DetectIntent("delete aside, what documents are missing?"))
}

func TestExtractDocumentID(t *testing.T) {
	assert.Equal(t, uint(12), ExtractDocumentID("delete doc id 12"))
	assert.Equal(t, uint(7), ExtractDocumentID("remove file #7 please"))
	assert.Equal(t, uint(0), ExtractDocumentID("delete my passport"))
	assert.Equal(t, uint(0), ExtractDocumentID(""))
}
