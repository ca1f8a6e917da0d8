package dto

import (
	catalogapp "github.com/foodgram/backend/internal/application/catalog"
	csvimport "github.com/foodgram/backend/internal/infrastructure/import"
)

// IngredientImportResponse represents the outcome of an ingredient CSV upload
type IngredientImportResponse struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
}

// NewIngredientImportResponse converts an import result for the API
func NewIngredientImportResponse(result *catalogapp.ImportResult) IngredientImportResponse {
	return IngredientImportResponse{
		TotalRows:    result.TotalRows,
		ImportedRows: result.ImportedRows,
		SkippedRows:  result.SkippedRows,
		ErrorRows:    result.ErrorRows,
		Errors:       result.Errors,
		IsTruncated:  result.IsTruncated,
	}
}
