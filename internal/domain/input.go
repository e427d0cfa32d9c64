package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/a010145456/FitTrackApp/internal/validation"
)

// ExerciseInput is exercise data as typed by a user: both values are raw strings.
type ExerciseInput struct {
	Name     string `json:"name" validate:"required,notblank"`
	Duration string `json:"duration" validate:"required,integer"`
}

var inputValidator = validation.New()

// ParseExerciseInput validates raw input and coerces the duration to minutes.
// The name is returned exactly as given.
func ParseExerciseInput(in ExerciseInput) (string, int, error) {
	if err := inputValidator.Validate(in); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return "", 0, &InvalidInputError{Field: first.Field, Value: first.Value, Err: errors.New(first.Message)}
		}
		return "", 0, err
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(in.Duration))
	if err != nil {
		return "", 0, &InvalidInputError{Field: "duration", Value: in.Duration, Err: err}
	}
	return in.Name, minutes, nil
}
