package component

import (
	"unsafe"

	"mediacore/pkg/codecctx"
)

// Decoder is the slice of *codecctx.Context a MediaComponent drives. Pump
// logic (pump_av.go, pump_subtitle.go) is written against this interface so
// it can be exercised with a fake in tests, without a real codec library;
// production code always receives the real *codecctx.Context, which already
// satisfies this method set.
type Decoder interface {
	SendPacket(pkt unsafe.Pointer) int
	SendEmptyPacket() int
	ReceiveFrame(f *codecctx.Frame) int
	FlushBuffers()
	Close()
	CodecName() string
	CodecID() int
	Bitrate() int64
	MediaType() int
	DecodeSubtitle2(sub *codecctx.Subtitle, pkt unsafe.Pointer) (got bool, ret int)
}
