package component

import (
	"fmt"

	"mediacore/pkg/codecctx"
	"mediacore/pkg/mediapacket"
)

// ReceiveNextSubtitle drains one queued packet through the older synchronous
// decode_subtitle2 contract. A nil MediaFrame with a nil error means the
// packet produced no subtitle (not every packet does) or the queue is empty.
func (c *MediaComponent) ReceiveNextSubtitle() (*MediaFrame, error) {
	pkt := c.queue.Dequeue()
	if pkt == nil {
		c.hasCodecPackets.Store(false)
		return nil, nil
	}
	defer mediapacket.ReleasePacket(pkt)

	if pkt.IsFlushPacket() {
		c.ctx.FlushBuffers()
		return nil, nil
	}

	sub := codecctx.AllocSubtitle()
	got, ret := c.ctx.DecodeSubtitle2(sub, pkt.Ptr())
	if ret < 0 {
		sub.Free()
		return nil, fmt.Errorf("component: stream %d decode_subtitle2 failed: %d", c.streamIndex, ret)
	}
	if !got {
		sub.Free()
		return nil, nil
	}

	mf, err := c.source.CreateSubtitleSource(sub)
	if err != nil {
		sub.Free()
		return nil, err
	}
	return mf, nil
}
