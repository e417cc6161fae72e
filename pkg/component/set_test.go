package component

import (
	"testing"

	"mediacore/pkg/mediapacket"
)

func TestComponentSetMainPrefersVideo(t *testing.T) {
	s := NewComponentSet()
	audio := newTestComponent(Audio)
	audio.streamIndex = 0
	video := newTestComponent(Video)
	video.streamIndex = 1

	s.Add(audio)
	s.Add(video)

	if s.Main() != video {
		t.Fatalf("expected video component to become Main")
	}
	if audio.Main {
		t.Fatalf("expected audio component demoted from Main")
	}
	if !video.Main {
		t.Fatalf("expected video.Main set true")
	}
}

func TestComponentSetFirstComponentBecomesMainWhenNoVideo(t *testing.T) {
	s := NewComponentSet()
	audio := newTestComponent(Audio)
	audio.streamIndex = 0
	subtitle := newTestComponent(Subtitle)
	subtitle.streamIndex = 1

	s.Add(audio)
	s.Add(subtitle)

	if s.Main() != audio {
		t.Fatalf("expected first-added component to stay Main absent a video stream")
	}
}

func TestComponentSetDispatchPacketRoutesByStreamIndex(t *testing.T) {
	s := NewComponentSet()
	c := newTestComponent(Audio)
	c.streamIndex = 5
	s.Add(c)

	pkt := mediapacket.CreateEmptyPacket(5)
	if !s.DispatchPacket(5, pkt) {
		t.Fatalf("expected dispatch to succeed for a registered stream index")
	}
	if c.PacketCount() != 1 {
		t.Fatalf("expected packet enqueued on the owning component")
	}
	c.ClearQueuedPackets(false)
}

func TestComponentSetDispatchPacketUnknownIndexFails(t *testing.T) {
	s := NewComponentSet()
	pkt := mediapacket.CreateEmptyPacket(9)
	if s.DispatchPacket(9, pkt) {
		t.Fatalf("expected dispatch to fail for an unregistered stream index")
	}
	mediapacket.ReleasePacket(pkt)
}

func TestComponentSetDecodeOneInvokesOnFrameDecoded(t *testing.T) {
	s := NewComponentSet()
	c := newTestComponent(Video)
	c.streamIndex = 0
	c.ctx = &fakeDecoder{sendRets: []int{0}, receiveRets: []int{0}}
	c.queue.Push(mediapacket.CreateEmptyPacket(0))
	s.Add(c)

	var got *MediaFrame
	s.OnFrameDecoded = func(_ *MediaComponent, f *MediaFrame) { got = f }

	if err := s.DecodeOne(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.MediaType != Video {
		t.Fatalf("expected OnFrameDecoded invoked with a video frame, got %+v", got)
	}
	got.Release()
}

func TestComponentSetDecodeOneInvokesOnSubtitleDecoded(t *testing.T) {
	s := NewComponentSet()
	c := newTestComponent(Subtitle)
	c.streamIndex = 1
	c.ctx = &fakeDecoder{subGot: true}
	c.queue.Push(mediapacket.CreateEmptyPacket(1))
	s.Add(c)

	var got *MediaFrame
	s.OnSubtitleDecoded = func(_ *MediaComponent, f *MediaFrame) { got = f }

	if err := s.DecodeOne(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.MediaType != Subtitle {
		t.Fatalf("expected OnSubtitleDecoded invoked with a subtitle frame, got %+v", got)
	}
	got.Release()
}

func TestComponentSetPacketCountAggregatesAcrossComponents(t *testing.T) {
	s := NewComponentSet()
	a := newTestComponent(Audio)
	a.streamIndex = 0
	v := newTestComponent(Video)
	v.streamIndex = 1
	s.Add(a)
	s.Add(v)

	s.DispatchPacket(0, mediapacket.CreateEmptyPacket(0))
	s.DispatchPacket(1, mediapacket.CreateEmptyPacket(1))
	s.DispatchPacket(1, mediapacket.CreateEmptyPacket(1))

	if s.PacketCount() != 3 {
		t.Fatalf("expected 3 packets total across components, got %d", s.PacketCount())
	}

	s.Dispose()
}
