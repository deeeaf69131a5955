package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameStream(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.Equal(t, a.ID("node"), b.ID("node"))
}

func TestZeroSeedDrawsFromClock(t *testing.T) {
	s := NewSource(0)
	assert.NotZero(t, s.Seed)
}

func TestBounds(t *testing.T) {
	s := NewSource(7)
	for i := 0; i < 1000; i++ {
		f := s.Float()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		r := s.Range(10, 20)
		assert.GreaterOrEqual(t, r, 10.0)
		assert.Less(t, r, 20.0)

		n := s.Between(3, 5)
		assert.GreaterOrEqual(t, n, 3)
		assert.LessOrEqual(t, n, 5)
	}
	assert.Equal(t, 4, s.Between(4, 4))
}

func TestIDFormat(t *testing.T) {
	s := NewSource(7)
	assert.Regexp(t, `^civ_[0-9a-f]{8}$`, s.ID("civ"))
}

func TestPick(t *testing.T) {
	s := NewSource(7)
	choices := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		assert.Contains(t, choices, Pick(s, choices))
	}
}
