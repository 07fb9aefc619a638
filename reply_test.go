package vecbridge

import (
	"errors"
	"testing"

	"github.com/hupe1980/vecbridge/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplySlot(t *testing.T) {
	t.Run("first write wins", func(t *testing.T) {
		s := newReplySlot()
		first := result{resp: protocol.ListCollectionsResponse{Collections: []string{"a"}}}

		require.True(t, s.send(first))
		assert.False(t, s.send(result{err: errors.New("second")}))
		assert.False(t, s.abandon())

		got, ok := <-s.ch
		require.True(t, ok)
		assert.Equal(t, first, got)
	})

	t.Run("abandon closes without result", func(t *testing.T) {
		s := newReplySlot()
		require.True(t, s.abandon())
		assert.False(t, s.send(result{}))

		_, ok := <-s.ch
		assert.False(t, ok)
	})

	t.Run("write after reader detached does not block", func(t *testing.T) {
		s := newReplySlot()
		s.detach()
		assert.True(t, s.isDetached())
		assert.True(t, s.send(result{}))
	})
}

func TestNewMessage(t *testing.T) {
	a := newMessage(protocol.ListCollections{})
	b := newMessage(protocol.ListCollections{})

	assert.NotEqual(t, a.id, b.id)
	assert.Equal(t, protocol.OpListCollections, a.req.Op())
	assert.NotNil(t, a.reply)
	assert.False(t, a.enqueued.IsZero())
}
