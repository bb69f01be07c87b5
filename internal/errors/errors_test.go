package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsInnerCode(t *testing.T) {
	inner := InvalidInput("bad continent", nil)

	err := Wrap(inner, "select view")

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "select view: bad continent", err.Error())
	assert.True(t, stderrors.Is(err, inner))
}

func TestWrap_PlainErrorIsInternal(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), "load %s", "dataset")

	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "load dataset: boom", err.Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestGetCode_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", ConfigInvalid("PORT is required"))

	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestExternalServiceError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ExternalServiceError("openai", cause)

	assert.Equal(t, "openai service error: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}
