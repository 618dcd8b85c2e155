package sync

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
)

// Record is one flattened signup row: one question/response pair alongside
// the signer's contact fields. Any contact field may be empty.
type Record struct {
	UserID                  string
	FirstName               string
	MiddleName              string
	LastName                string
	City                    string
	State                   string
	Zip                     string
	Email                   string
	Phone                   string
	EmailSubscriptionStatus string
	QuestionName            string
	QuestionResponse        string
	UpdatedAt               string
}

// Positional indices into a signup report row.
const (
	colUserID = iota
	colFirstName
	colMiddleName
	colLastName
	colCity
	colState
	colZip
	colEmail
	colPhone
	colEmailSubscriptionStatus
	colQuestionName
	colQuestionResponse
	colActionID
	colCreatedAt
	colUpdatedAt
	colPageID
)

// RecordFromRow maps a positional report row onto a Record. Null cells
// become empty strings; numeric cells are rendered as their decimal form.
func RecordFromRow(row []any) (Record, error) {
	if len(row) <= colUpdatedAt {
		return Record{}, eris.Errorf("sync: row has %d columns, want at least %d", len(row), colUpdatedAt+1)
	}
	return Record{
		UserID:                  cell(row, colUserID),
		FirstName:               cell(row, colFirstName),
		MiddleName:              cell(row, colMiddleName),
		LastName:                cell(row, colLastName),
		City:                    cell(row, colCity),
		State:                   cell(row, colState),
		Zip:                     cell(row, colZip),
		Email:                   cell(row, colEmail),
		Phone:                   cell(row, colPhone),
		EmailSubscriptionStatus: cell(row, colEmailSubscriptionStatus),
		QuestionName:            cell(row, colQuestionName),
		QuestionResponse:        cell(row, colQuestionResponse),
		UpdatedAt:               cell(row, colUpdatedAt),
	}, nil
}

func cell(row []any, i int) string {
	switch v := row[i].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
