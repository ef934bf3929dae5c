package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("build material: %w", New(KindShaderCompile, "compile vertex shader", "0:1: syntax error"))

	assert.ErrorIs(t, err, ErrShaderCompile)
	assert.NotErrorIs(t, err, ErrShaderLink)
	assert.Equal(t, KindShaderCompile, KindOf(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "0:1: syntax error", e.Msg)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("out of memory")
	err := Wrap(KindResourceCreation, "create buffer", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrResourceCreation)
	assert.Equal(t, "resource creation error: create buffer: out of memory", err.Error())
	assert.Nil(t, Wrap(KindResourceCreation, "noop", nil))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
