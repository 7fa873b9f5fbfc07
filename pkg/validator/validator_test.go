package validator_test

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/techstore-catalog/pkg/validator"
)

type paint struct {
	Name   string   `json:"name" validate:"required"`
	Color  string   `json:"color" validate:"required,oneof=orange gray"`
	Liters *float64 `json:"liters" validate:"required,gt=0"`
	Note   string   `json:"-"`
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	liters := 2.5

	t.Run("Should accept a valid struct", func(t *testing.T) {
		err := v.Validate(paint{Name: "base", Color: "orange", Liters: &liters})
		assert.NoError(t, err)
	})

	t.Run("Should report fields by json name", func(t *testing.T) {
		err := v.Validate(paint{Color: "blue"})
		require.Error(t, err)
		require.True(t, validator.IsValidationError(err))

		var validationErrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &validationErrs))

		fields := map[string]string{}
		for _, fe := range validationErrs {
			fields[fe.Field()] = validator.ValidationErrorMessage(fe)
		}

		assert.Equal(t, map[string]string{
			"name":   "field is required",
			"color":  "must be one of [orange gray]",
			"liters": "field is required",
		}, fields)
	})

	t.Run("Should reject zero behind a present pointer", func(t *testing.T) {
		zero := 0.0
		err := v.Validate(paint{Name: "base", Color: "gray", Liters: &zero})
		require.Error(t, err)

		var validationErrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &validationErrs))
		require.Len(t, validationErrs, 1)
		assert.Equal(t, "gt", validationErrs[0].Tag())
		assert.Equal(t, "must be greater than 0", validator.ValidationErrorMessage(validationErrs[0]))
	})
}
