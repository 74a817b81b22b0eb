package mathx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(5, 0, 10))
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(42, 0, 10))
	assert.Equal(t, 10, Clamp(42, 10, 0), "swapped bounds")
}

func TestScalePercent(t *testing.T) {
	assert.Equal(t, uint32(0), ScalePercent(0, 65535))
	assert.Equal(t, uint32(65535), ScalePercent(100, 65535))
	assert.Equal(t, uint32(500), ScalePercent(50, 1000))
	assert.Equal(t, uint32(1000), ScalePercent(250, 1000))
}

func TestMin(t *testing.T) {
	assert.Equal(t, 3, Min(3, 7))
	assert.Equal(t, uint32(0), Min(uint32(9), 0))
}
