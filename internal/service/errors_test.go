package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/UnknownOlympus/addrcheck/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &service.Error{
		Kind: service.KindNotFound,
		Op:   "geocode",
		Msg:  service.ErrNoResult.Msg,
	})

	assert.ErrorIs(t, err, service.ErrNoResult)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NotErrorIs(t, err, service.ErrNoLocation)
	assert.NotErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
	assert.Equal(t, service.Kind(0), service.KindOf(errors.New("plain")))
}

func TestError_ProviderFailureUnwraps(t *testing.T) {
	err := &service.Error{
		Kind: service.KindProviderFailure,
		Msg:  "geocoding provider failure",
		Err:  assert.AnError,
	}

	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, err, service.ErrProviderFailure)
	assert.Equal(t, "geocoding provider failure: "+assert.AnError.Error(), err.Error())
	assert.Equal(t, "provider failure", err.Kind.String())
}
