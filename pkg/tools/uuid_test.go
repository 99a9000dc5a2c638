package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUID(t *testing.T) {
	m := make(map[string]struct{})
	for i := 0; i < 10000; i++ {
		id := UUID()
		assert.Len(t, id, 32)
		assert.NotContains(t, id, "-")
		_, ok := m[id]
		assert.False(t, ok)
		m[id] = struct{}{}
	}
	assert.Len(t, ShortUUID(), 12)
}
