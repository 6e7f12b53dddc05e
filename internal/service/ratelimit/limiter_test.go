package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterConsumesCapacity(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("okx", 3, 0.001), "call %d should pass", i)
	}
	assert.False(t, l.Allow("okx", 3, 0.001))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("a", 1, 0.001))
	assert.False(t, l.Allow("a", 1, 0.001))
	assert.True(t, l.Allow("b", 1, 0.001))
}

func TestLimiterRefills(t *testing.T) {
	l := New()

	assert.True(t, l.Allow("k", 1, 100))
	assert.False(t, l.Allow("k", 1, 100))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, l.Allow("k", 1, 100))
}
