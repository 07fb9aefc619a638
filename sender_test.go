package vecbridge

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/vecbridge/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender(t *testing.T) {
	ctx := context.Background()

	t.Run("send and receive", func(t *testing.T) {
		s := newSender(1)
		require.NoError(t, s.send(ctx, newMessage(protocol.ListCollections{})))

		msg := <-s.recv()
		assert.Equal(t, protocol.OpListCollections, msg.req.Op())
	})

	t.Run("send after close", func(t *testing.T) {
		s := newSender(1)
		assert.True(t, s.isOpen())
		require.True(t, s.close())
		assert.False(t, s.close())
		assert.False(t, s.isOpen())

		err := s.send(ctx, newMessage(protocol.ListCollections{}))
		require.ErrorIs(t, err, ErrShuttingDown)
		require.ErrorIs(t, err, ErrChannelClosed)
	})

	t.Run("buffered messages survive close", func(t *testing.T) {
		s := newSender(2)
		require.NoError(t, s.send(ctx, newMessage(protocol.ListCollections{})))
		require.NoError(t, s.send(ctx, newMessage(protocol.ListAliases{})))
		s.close()

		var ops []protocol.Op
		for msg := range s.recv() {
			ops = append(ops, msg.req.Op())
		}
		assert.Equal(t, []protocol.Op{protocol.OpListCollections, protocol.OpListAliases}, ops)
	})

	t.Run("blocked send fails on close", func(t *testing.T) {
		s := newSender(1)
		require.NoError(t, s.send(ctx, newMessage(protocol.ListCollections{})))

		errCh := make(chan error, 1)
		go func() {
			errCh <- s.send(ctx, newMessage(protocol.ListCollections{}))
		}()

		// Give the sender time to block on the full buffer.
		time.Sleep(20 * time.Millisecond)
		s.close()

		select {
		case err := <-errCh:
			require.ErrorIs(t, err, ErrShuttingDown)
		case <-time.After(time.Second):
			t.Fatal("blocked send did not return after close")
		}
	})

	t.Run("blocked send honours context", func(t *testing.T) {
		s := newSender(1)
		require.NoError(t, s.send(ctx, newMessage(protocol.ListCollections{})))

		sendCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		err := s.send(sendCtx, newMessage(protocol.ListCollections{}))
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
