package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := New(time.Minute, time.Minute)

	_, ok := c.Get("thoughts:10")
	assert.False(t, ok)

	c.Set("thoughts:10", []int{1, 2})
	v, ok := c.Get("thoughts:10")
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, v)

	c.Delete("thoughts:10")
	_, ok = c.Get("thoughts:10")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.GetStats().ItemCount)

	c.Clear()
	assert.Zero(t, c.GetStats().ItemCount)
}

func TestCache_Expiry(t *testing.T) {
	c := New(20*time.Millisecond, time.Minute)
	c.Set("a", 1)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
