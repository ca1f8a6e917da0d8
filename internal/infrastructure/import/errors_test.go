package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowError(t *testing.T) {
	withColumn := NewRowError(3, "name", ErrCodeImportValidation, "Ingredient name cannot be empty")
	assert.Equal(t, "row 3, column 'name': Ingredient name cannot be empty", withColumn.Error())

	withoutColumn := NewRowError(7, "", ErrCodeImportMalformedRow, "unexpected extra fields")
	assert.Equal(t, "row 7: unexpected extra fields", withoutColumn.Error())
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection(2)
	assert.False(t, ec.HasErrors())
	assert.Equal(t, "no errors", ec.String())

	ec.Add(NewRowError(1, "name", ErrCodeImportValidation, "empty"))
	ec.AddDuplicateError(5, 2, "salt (g)")
	ec.Add(NewRowError(9, "", ErrCodeImportMalformedRow, "extra"))

	assert.True(t, ec.HasErrors())
	assert.True(t, ec.IsTruncated())
	assert.Equal(t, 3, ec.TotalCount())
	assert.Len(t, ec.Errors(), 2)

	dup := ec.Errors()[1]
	assert.Equal(t, ErrCodeImportDuplicateInFile, dup.Code)
	assert.Equal(t, "duplicate of row 2", dup.Message)

	out := ec.String()
	assert.Contains(t, out, "3 error(s) found (showing first 2)")
	assert.Contains(t, out, "row 5: duplicate of row 2")
}

func TestNewErrorCollection_DefaultLimit(t *testing.T) {
	ec := NewErrorCollection(0)
	for i := range 100 {
		ec.Add(NewRowError(i, "", ErrCodeImportValidation, "bad"))
	}
	assert.False(t, ec.IsTruncated())
	ec.Add(NewRowError(101, "", ErrCodeImportValidation, "bad"))
	assert.True(t, ec.IsTruncated())
}
