package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPushDropsWhenSaturated(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	for i := 0; i < cap(h.broadcast)+10; i++ {
		h.Push(id, i)
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}
