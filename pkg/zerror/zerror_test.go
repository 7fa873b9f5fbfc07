package zerror_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/techstore-catalog/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should match predefined error after wrapping", func(t *testing.T) {
		err := fmt.Errorf("get product: %w", notFound.WrapParent(io.EOF))

		assert.ErrorIs(t, err, notFound)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		other := zerror.NewNotFound("BRAND_NOT_FOUND", "brand not found")

		assert.False(t, errors.Is(notFound, other))
	})

	t.Run("Should expose status code and message through errors.As", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", notFound)

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
		assert.Equal(t, "product not found", zErr.Msg())
	})

	t.Run("Should keep predefined error when parent is nil", func(t *testing.T) {
		assert.Nil(t, notFound.WrapParent(nil).Parent())
		assert.Equal(t, "Code=PRODUCT_NOT_FOUND, Msg=product not found", notFound.Error())
	})
}
