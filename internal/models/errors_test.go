package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientDataError(t *testing.T) {
	err := &InsufficientDataError{Ticker: "AAPL", Required: 200, Actual: 50}
	assert.True(t, errors.Is(err, ErrInsufficientData))
	assert.Contains(t, err.Error(), "AAPL")
}

func TestUpstreamErrorExposesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &UpstreamError{Provider: "eodhd", Err: cause}

	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "eodhd")
}

func TestContractError(t *testing.T) {
	err := &ContractError{Reason: "both inputs supplied"}
	assert.True(t, errors.Is(err, ErrContractViolation))
	assert.Contains(t, err.Error(), "both inputs supplied")
}
