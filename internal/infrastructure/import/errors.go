package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ErrCodeImportMalformedRow    = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeImportValidation      = "ERR_IMPORT_VALIDATION"
	ErrCodeImportDuplicateInFile = "ERR_IMPORT_DUPLICATE_IN_FILE"
)

// File-level failures; the import stops before any row is read
var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("invalid file encoding")
	ErrMissingHeader   = errors.New("CSV file missing header row")
)

const defaultMaxRowErrors = 100

// RowError reports one rejected line. Row is the 1-based line number.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
}

func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// ErrorCollection keeps the first maxErrors row errors and counts the rest
type ErrorCollection struct {
	kept  []RowError
	limit int
	total int
}

// NewErrorCollection caps the kept errors at maxErrors, or 100 when maxErrors
// is not positive
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = defaultMaxRowErrors
	}
	return &ErrorCollection{limit: maxErrors}
}

func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.kept) < ec.limit {
		ec.kept = append(ec.kept, err)
	}
}

// AddDuplicateError records that row repeats the ingredient first seen on firstRow
func (ec *ErrorCollection) AddDuplicateError(row, firstRow int, value string) {
	err := NewRowError(row, "", ErrCodeImportDuplicateInFile, fmt.Sprintf("duplicate of row %d", firstRow))
	err.Value = value
	ec.Add(err)
}

func (ec *ErrorCollection) Errors() []RowError { return ec.kept }

// TotalCount includes errors dropped past the limit
func (ec *ErrorCollection) TotalCount() int { return ec.total }

func (ec *ErrorCollection) HasErrors() bool { return ec.total > 0 }

func (ec *ErrorCollection) IsTruncated() bool { return ec.total > ec.limit }

// String renders a multi-line summary for logs and error messages
func (ec *ErrorCollection) String() string {
	if ec.total == 0 {
		return "no errors"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", ec.total)
	if ec.IsTruncated() {
		fmt.Fprintf(&sb, " (showing first %d)", ec.limit)
	}
	sb.WriteString(":\n")
	for _, err := range ec.kept {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
