package domainerrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeMissingRecord, "record 7 not found")
		assert.True(t, HasCode(err, CodeMissingRecord))
		assert.False(t, HasCode(err, CodeOwnershipMismatch))
	})

	t.Run("matches code buried in chain", func(t *testing.T) {
		inner := New(CodeSizeConstraintViolated, "footprint out of range")
		outer := Wrap(inner, CodeInternal, "revise failed")
		assert.True(t, HasCode(outer, CodeSizeConstraintViolated))
		assert.True(t, HasCode(outer, CodeInternal))
	})

	t.Run("uncoded error never matches", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	})
}

func TestWrapPreservesChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, CodeInternal, "store unavailable")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "store unavailable")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeOwnershipMismatch, CodeOf(New(CodeOwnershipMismatch, "not custodian")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeMissingRecord:          http.StatusNotFound,
		CodeDuplicateRegistration:  http.StatusConflict,
		CodeInvalidMetadataFormat:  http.StatusUnprocessableEntity,
		CodeSizeConstraintViolated: http.StatusUnprocessableEntity,
		CodeMetadataValidation:     http.StatusUnprocessableEntity,
		CodeOwnershipMismatch:      http.StatusForbidden,
		CodeUnauthorized:           http.StatusForbidden,
		CodeAdminRequired:          http.StatusForbidden,
		CodeAccessDenied:           http.StatusForbidden,
		CodeBadRequest:             http.StatusBadRequest,
		CodeInternal:               http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
