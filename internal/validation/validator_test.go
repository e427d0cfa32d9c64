package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string `json:"name" validate:"required,notblank"`
	Duration string `json:"duration" validate:"required,integer"`
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(sample{Name: "Plank", Duration: "30"}))
	assert.NoError(t, v.Validate(sample{Name: "Plank", Duration: " -5 "}))
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(sample{Name: "   ", Duration: "ten"})
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "notblank", errs[0].Tag)
	assert.Equal(t, "duration", errs[1].Field)
	assert.Equal(t, "integer", errs[1].Tag)
	assert.Equal(t, "ten", errs[1].Value)
	assert.Contains(t, err.Error(), "duration must be a whole number")
}

func TestValidateRejectsOverflow(t *testing.T) {
	err := New().Validate(sample{Name: "Run", Duration: "99999999999999999999999"})
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "integer", errs[0].Tag)
}
