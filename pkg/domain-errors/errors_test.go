package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("rpc unreachable")
	err := Wrap(cause, CodeLedger, "rpc unreachable")

	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, CodeLedger))
	assert.Equal(t, "rpc unreachable", err.Error())
	assert.Nil(t, Wrap(nil, CodeLedger, "ignored"))
}

func TestHasCodeWalksNestedDomainErrors(t *testing.T) {
	inner := New(CodeConfiguration, "claim payer secret not configured")
	outer := Wrap(fmt.Errorf("claim: %w", inner), CodeInternal, "claim failed")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeConfiguration))
	assert.False(t, HasCode(outer, CodeValidation))
	assert.False(t, Is(outer, CodeConfiguration))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:    http.StatusBadRequest,
		CodeValidation:    http.StatusBadRequest,
		CodeNotFound:      http.StatusNotFound,
		CodeConfiguration: http.StatusInternalServerError,
		CodeLedger:        http.StatusInternalServerError,
		CodeInternal:      http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), code)
	}
}
