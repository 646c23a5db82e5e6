package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WrappedIsDetected(t *testing.T) {
	base := NewDuplicateCode("1.01")
	wrapped := fmt.Errorf("create account: %w", base)

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeDuplicateCode, appErr.Code)
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(wrapped))
	assert.True(t, HasCode(wrapped, CodeDuplicateCode))
	assert.False(t, IsNotFound(wrapped))
}

func TestNewEnrichmentUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: timeout")

	withStatus := NewEnrichmentUnavailable(http.StatusTooManyRequests, cause)
	assert.Equal(t, http.StatusBadGateway, withStatus.HTTPStatus)
	assert.Equal(t, http.StatusTooManyRequests, withStatus.Details["upstream_status"])
	assert.ErrorIs(t, withStatus, cause)

	noResponse := NewEnrichmentUnavailable(0, cause)
	assert.NotContains(t, noResponse.Details, "upstream_status")
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
}
