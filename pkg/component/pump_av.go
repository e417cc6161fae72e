package component

import (
	"fmt"
	"sync/atomic"

	"mediacore/pkg/codecctx"
	"mediacore/pkg/mediapacket"
)

// FeedPacketsToDecoder sends as many queued packets as the decoder will
// currently accept, stopping (without dropping the packet) the first time
// the codec reports AGAIN -- the decoder's internal buffer is full and must
// be drained with ReceiveNextFrame before it can accept more input.
func (c *MediaComponent) FeedPacketsToDecoder() (fed int, err error) {
	for {
		pkt := c.queue.Peek()
		if pkt == nil {
			return fed, nil
		}

		isFlush := pkt.IsFlushPacket()
		ret := c.sendOne(pkt)
		if codecctx.IsAgain(ret) {
			return fed, nil
		}

		c.queue.Dequeue()
		mediapacket.ReleasePacket(pkt)
		fed++

		if ret < 0 && !codecctx.IsEOF(ret) {
			return fed, fmt.Errorf("component: stream %d send_packet failed: %d", c.streamIndex, ret)
		}

		if isFlush {
			c.hasCodecPackets.Store(false)
		} else if ret >= 0 {
			c.hasCodecPackets.Store(true)
		}
	}
}

func (c *MediaComponent) sendOne(pkt *mediapacket.Packet) int {
	switch {
	case pkt.IsFlushPacket():
		c.ctx.FlushBuffers()
		return 0
	case pkt.IsEmptyPacket():
		return c.ctx.SendEmptyPacket()
	default:
		ret := c.ctx.SendPacket(pkt.Ptr())
		if !codecctx.IsAgain(ret) {
			// An AGAIN packet stays queued and is sent again later; count
			// its bytes only on the attempt that dequeues it.
			atomic.AddInt64(&c.lifetimeBytesRead, int64(pkt.Size()))
		}
		return ret
	}
}

// ReceiveNextFrame pulls at most one decoded frame out of the codec. A nil
// MediaFrame with a nil error means the codec has nothing ready yet (AGAIN)
// or has reached end of stream (EOF); neither is itself an error condition.
// EOF triggers a codec flush so the next cycle can resume cleanly with fresh
// packets; AGAIN means the codec has drained everything it was fed.
func (c *MediaComponent) ReceiveNextFrame() (*MediaFrame, error) {
	frame := codecctx.AllocFrame()
	ret := c.ctx.ReceiveFrame(frame)

	switch {
	case ret == 0:
		mf, err := c.source.CreateFrameSource(frame)
		if err != nil {
			frame.Free()
			return nil, err
		}
		return mf, nil
	case codecctx.IsAgain(ret):
		c.hasCodecPackets.Store(false)
		frame.Free()
		return nil, nil
	case codecctx.IsEOF(ret):
		c.ctx.FlushBuffers()
		frame.Free()
		return nil, nil
	default:
		frame.Free()
		return nil, fmt.Errorf("component: stream %d receive_frame failed: %d", c.streamIndex, ret)
	}
}

// ClearQueuedPackets drops every packet currently queued for this component
// without sending any of them to the decoder, releasing their foreign
// storage. Used on seek, where in-flight packets are stale. When
// flushBuffers is true the codec itself is flushed too, discarding any
// frames already accepted from the stale packets, and HasCodecPackets is
// cleared.
func (c *MediaComponent) ClearQueuedPackets(flushBuffers bool) {
	c.queue.Clear()
	if flushBuffers {
		c.ctx.FlushBuffers()
		c.hasCodecPackets.Store(false)
	}
}
