package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/foodgram/backend/internal/domain/catalog"
	"github.com/foodgram/backend/internal/domain/shared"
	csvimport "github.com/foodgram/backend/internal/infrastructure/import"
	"go.uber.org/zap"
)

// Column names of the ingredient CSV. A header row with these names is
// optional.
const (
	ColumnName            = "name"
	ColumnMeasurementUnit = "measurement_unit"
)

// DefaultImportBatchSize is the number of rows written per transaction
const DefaultImportBatchSize = 1000

const maxReportedErrors = 100

// ImportResult summarizes an ingredient import
type ImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
}

// IngredientImportService loads the ingredient catalog from CSV. Rows are
// trimmed and NFC-normalized; pairs already stored are skipped, so the
// import can be re-run safely.
type IngredientImportService struct {
	ingredientRepo catalog.IngredientRepository
	batchSize      int
	logger         *zap.Logger
}

// NewIngredientImportService creates a new IngredientImportService
func NewIngredientImportService(ingredientRepo catalog.IngredientRepository, batchSize int, logger *zap.Logger) *IngredientImportService {
	if batchSize <= 0 {
		batchSize = DefaultImportBatchSize
	}
	return &IngredientImportService{
		ingredientRepo: ingredientRepo,
		batchSize:      batchSize,
		logger:         logger,
	}
}

// Import reads "name,measurement_unit" rows from r. Invalid rows and rows
// repeated within the file are reported and skipped; every batch of valid
// rows is written in its own transaction.
func (s *IngredientImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parser, err := csvimport.NewCSVParser(r,
		csvimport.WithHeaders(ColumnName, ColumnMeasurementUnit),
		csvimport.WithNFC(),
	)
	if err != nil {
		return nil, shared.NewValidationError("Cannot read ingredient file: %v", err)
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, shared.NewValidationError("Cannot parse ingredient file: %v", err)
	}
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		rows = rows[1:]
	}

	result := &ImportResult{TotalRows: len(rows)}
	rowErrors := csvimport.NewErrorCollection(maxReportedErrors)
	firstSeen := make(map[string]int, len(rows))
	batch := make([]*catalog.Ingredient, 0, s.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		inserted, err := s.ingredientRepo.SaveBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to save ingredient batch: %w", err)
		}
		result.ImportedRows += int(inserted)
		result.SkippedRows += len(batch) - int(inserted)
		s.logger.Debug("Ingredient batch saved",
			zap.Int("rows", len(batch)),
			zap.Int64("inserted", inserted))
		batch = batch[:0]
		return nil
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if row.Extra > 0 {
			rowErrors.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportMalformedRow,
				fmt.Sprintf("expected 2 columns, got %d", 2+row.Extra)))
			continue
		}
		ingredient, err := catalog.NewIngredient(row.Get(ColumnName), row.Get(ColumnMeasurementUnit))
		if err != nil {
			rowErrors.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportValidation, err.Error()))
			continue
		}

		key := ingredient.Name + "\x00" + ingredient.MeasurementUnit
		if first, dup := firstSeen[key]; dup {
			rowErrors.AddDuplicateError(row.LineNumber, first, ingredient.Name)
			continue
		}
		firstSeen[key] = row.LineNumber

		batch = append(batch, ingredient)
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := flush(); err != nil {
		return result, err
	}

	result.ErrorRows = rowErrors.TotalCount()
	result.Errors = rowErrors.Errors()
	result.IsTruncated = rowErrors.IsTruncated()

	s.logger.Info("Ingredient import finished",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("imported", result.ImportedRows),
		zap.Int("skipped", result.SkippedRows),
		zap.Int("errors", result.ErrorRows))

	if result.ErrorRows > 0 && result.ImportedRows == 0 && result.SkippedRows == 0 {
		return result, shared.NewValidationError("No ingredient could be imported: %s", rowErrors.String())
	}
	return result, nil
}

func isHeaderRow(row *csvimport.Row) bool {
	return strings.EqualFold(row.Get(ColumnName), ColumnName) &&
		strings.EqualFold(row.Get(ColumnMeasurementUnit), ColumnMeasurementUnit)
}
