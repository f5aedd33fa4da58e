// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, not_found) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes carry the failure classes of the generation
//     pipeline: provider_exhausted means every model in the fallback list
//     failed transiently; extraction_incomplete means a provider replied but
//     the reply failed the validity gate. Both are explicit — no placeholder
//     results are ever returned in place of an error.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/go-recipe-backend/internal/extract"
	"github.com/plateful/go-recipe-backend/internal/provider"
	"github.com/plateful/go-recipe-backend/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeProviderExhausted    = "provider_exhausted"
	ErrCodeExtractionIncomplete = "extraction_incomplete"
	ErrCodeReservedName         = "reserved_name"
	ErrCodeUploadState          = "upload_state"
	ErrCodeImageJobFailed       = "image_job_failed"
	ErrCodeImageJobTimeout      = "image_job_timeout"
	ErrCodeMethodNotAllowed     = "method_not_allowed"
)

// failFromService maps a service-layer error onto the HTTP error taxonomy.
//
// The mapping is deliberately exhaustive over the typed errors the services
// can return; anything unrecognized is a 500. Extraction failures are 422
// (the provider answered, the reply failed the validity gate) while provider
// exhaustion is 502 (no model answered at all).
func failFromService(c *gin.Context, err error) {
	var (
		exhausted  *provider.ExhaustedError
		incomplete *extract.IncompleteError
		jsonBlock  *extract.JSONBlockError
	)

	switch {
	case errors.Is(err, services.ErrRecipeNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
	case errors.Is(err, services.ErrNoUpload):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no upload in progress")
	case errors.Is(err, services.ErrReservedName):
		fail(c, http.StatusUnprocessableEntity, ErrCodeReservedName, "recipe name is reserved")
	case errors.Is(err, services.ErrUploadState):
		fail(c, http.StatusConflict, ErrCodeUploadState, "action not valid in the current upload state")
	case errors.Is(err, services.ErrEmptySpecification),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrUnknownPairingType):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, provider.ErrJobTimeout):
		fail(c, http.StatusGatewayTimeout, ErrCodeImageJobTimeout, "image job did not finish in time")
	case errors.Is(err, provider.ErrJobFailed):
		fail(c, http.StatusBadGateway, ErrCodeImageJobFailed, "image job failed")
	case errors.As(err, &exhausted):
		fail(c, http.StatusBadGateway, ErrCodeProviderExhausted, err.Error())
	case errors.As(err, &incomplete), errors.As(err, &jsonBlock),
		errors.Is(err, extract.ErrNoJSONBlock):
		fail(c, http.StatusUnprocessableEntity, ErrCodeExtractionIncomplete, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
