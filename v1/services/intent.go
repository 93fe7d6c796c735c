package services

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is a coarse classification of a chat message
type Intent string

const (
	IntentListApps      Intent = "LIST_APPS"
	IntentMissingDocs   Intent = "MISSING_DOCS"
	IntentDeleteDocByID Intent = "DELETE_DOC_ID"
	IntentDeleteAllDocs Intent = "DELETE_ALL_DOCS"
	IntentDeleteDoc     Intent = "DELETE_DOC"
	IntentRequirements  Intent = "REQUIREMENTS"
	IntentReqsAllApps   Intent = "REQS_ALL_APPS"
	IntentGeneral       Intent = "GENERAL"
)

var docIDPattern = regexp.MustCompile(`(#|id\s*)(\d+)`)

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// DetectIntent classifies a chat message by keyword. Rules are checked in
// priority order; the first match wins and anything unmatched is GENERAL.
func DetectIntent(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))

	if containsAny(t, "missing", "what am i missing", "what's missing", "remaining", "left to upload") {
		return IntentMissingDocs
	}
	if containsAny(t, "for each application", "each application", "all applications", "for every application") {
		return IntentReqsAllApps
	}
	if containsAny(t, "my applications", "list applications", "show applications", "what did i apply") {
		return IntentListApps
	}
	if containsAny(t, "delete", "remove") && containsAny(t, "document", "file", "passport", "transcript", "cv") {
		if docIDPattern.MatchString(t) {
			return IntentDeleteDocByID
		}
		if strings.Contains(t, "all") {
			return IntentDeleteAllDocs
		}
		return IntentDeleteDoc
	}
	if containsAny(t, "documents required", "requirements", "what documents", "what do i need") {
		return IntentRequirements
	}

	return IntentGeneral
}

// ExtractDocumentID pulls an explicit document id like "#12" or "id 12" out
// of a message. Returns 0 when no id is present.
func ExtractDocumentID(text string) uint {
	match := docIDPattern.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return 0
	}
	id, err := strconv.ParseUint(match[2], 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
