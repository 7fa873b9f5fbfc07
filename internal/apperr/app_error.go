package apperr

import "github.com/tuanvumaihuynh/techstore-catalog/pkg/zerror"

const (
	ValidationErrorCode       = "VALIDATION_FAILED"
	MalformedBodyErrorCode    = "MALFORMED_BODY"
	ProductNotFoundErrorCode  = "PRODUCT_NOT_FOUND"
	StoreReadErrorCode        = "STORE_READ_FAILED"
	StoreWriteErrorCode       = "STORE_WRITE_FAILED"
	StoreUnavailableErrorCode = "STORE_UNAVAILABLE"
	IDGenerationErrorCode     = "ID_GENERATION_FAILED"
)

var (
	ValidationErr      = zerror.NewValidationFailed(ValidationErrorCode, "required fields are missing or invalid")
	MalformedBodyErr   = zerror.NewBadRequest(MalformedBodyErrorCode, "request body is not valid JSON")
	ProductNotFoundErr = zerror.NewNotFound(ProductNotFoundErrorCode, "product not found")

	StoreReadErr        = zerror.NewInternalServerError(StoreReadErrorCode, "failed to read catalog store")
	StoreWriteErr       = zerror.NewInternalServerError(StoreWriteErrorCode, "failed to write catalog store")
	StoreUnavailableErr = zerror.NewServiceUnavailable(StoreUnavailableErrorCode, "catalog store is unavailable")
	IDGenerationErr     = zerror.NewInternalServerError(IDGenerationErrorCode, "failed to generate product id")
)
