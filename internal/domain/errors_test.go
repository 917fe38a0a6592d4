package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("ingest: %w", ErrStorage("record webhook activity", cause))

	assert.True(t, HasCode(err, CodeStorage))
	assert.False(t, HasCode(err, CodeValidation))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "storage_error: record webhook activity")

	ae, ok := AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, "record webhook activity", ae.Message)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, HasCode(nil, CodeStorage))
}

func TestAppError_Meta(t *testing.T) {
	err := ErrValidationMeta("payload too large", map[string]string{"max_bytes": "10"})
	assert.Equal(t, "validation_error: payload too large (map[max_bytes:10])", err.Error())
}
