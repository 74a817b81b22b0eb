package timex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinceAcrossWrap(t *testing.T) {
	start := uint32(math.MaxUint32 - 9)
	assert.Equal(t, uint32(20), Since(10, start))
	assert.Equal(t, uint32(0), Since(start, start))
}

func TestTicksAdvance(t *testing.T) {
	tk := NewTicks(math.MaxUint32)
	tk.Advance()
	assert.Equal(t, uint32(0), tk.NowMs())
}

func TestPeriodFromHz(t *testing.T) {
	assert.Equal(t, uint64(1_000_000), PeriodFromHz(1000))
	assert.Equal(t, uint64(1_000_000_000), PeriodFromHz(0))
}
