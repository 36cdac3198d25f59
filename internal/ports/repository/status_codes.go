package repository

import (
	"fmt"
	"strings"

	"timesheet.service/internal/core/model"
)

// Stored status codes. This table is the only place the database
// representation of a status is known.
const (
	statusCodePending            = "pending"
	statusCodeApproved           = "approved"
	statusCodeRejected           = "rejected"
	statusCodeNeedsClarification = "needs_clarification"
	statusCodePaid               = "paid"
)

var (
	statusCodes = map[model.Status]string{
		model.StatusPending:            statusCodePending,
		model.StatusApproved:           statusCodeApproved,
		model.StatusRejected:           statusCodeRejected,
		model.StatusNeedsClarification: statusCodeNeedsClarification,
		model.StatusPaid:               statusCodePaid,
	}

	// Older rows were written by clients that used their own spellings.
	statusCodeSynonyms = map[model.Status][]string{
		model.StatusPending:            {statusCodePending, "submitted", "draft_submitted"},
		model.StatusApproved:           {statusCodeApproved},
		model.StatusRejected:           {statusCodeRejected, "declined"},
		model.StatusNeedsClarification: {statusCodeNeedsClarification, "clarification", "needs-clarification", "clarification_requested"},
		model.StatusPaid:               {statusCodePaid},
	}
	statusAliasToStatus = buildStatusAliasMap()
)

func buildStatusAliasMap() map[string]model.Status {
	aliases := make(map[string]model.Status)
	for status, synonyms := range statusCodeSynonyms {
		for _, alias := range synonyms {
			aliases[alias] = status
		}
	}
	return aliases
}

// encodeStatus returns the stored code for a status.
func encodeStatus(s model.Status) (string, error) {
	code, ok := statusCodes[s]
	if !ok {
		return "", fmt.Errorf("unknown submission status %q", s)
	}
	return code, nil
}

// decodeStatus maps a stored code, or any known alias, back to a status.
func decodeStatus(code string) (model.Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if status, ok := statusAliasToStatus[normalized]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown stored submission status %q", code)
}
