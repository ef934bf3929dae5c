package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
}

func TestValueOr(t *testing.T) {
	v := false
	assert.False(t, ValueOr(&v, true))
	assert.True(t, ValueOr[bool](nil, true))
	assert.Equal(t, int32(9728), ValueOr(nil, int32(9728)))
}
