package component

import (
	"sync"

	"mediacore/pkg/mediapacket"
)

// ComponentSet owns every MediaComponent opened for a container and routes
// demuxed packets and decoded frames between them and the pipeline. Exactly
// one component -- preferring video, falling back to the first one added --
// is marked Main and drives playback position.
type ComponentSet struct {
	mu      sync.RWMutex
	byIndex map[int]*MediaComponent
	main    *MediaComponent

	// OnFrameDecoded and OnSubtitleDecoded run synchronously on the calling
	// goroutine (the decoder thread); no dispatcher queue sits between
	// decode and notification.
	OnFrameDecoded    func(c *MediaComponent, f *MediaFrame)
	OnSubtitleDecoded func(c *MediaComponent, f *MediaFrame)
}

// NewComponentSet returns an empty set ready to receive components.
func NewComponentSet() *ComponentSet {
	return &ComponentSet{byIndex: make(map[int]*MediaComponent)}
}

// Add registers a component, picking a new Main component if c is video and
// the current Main is not, or if there is no Main yet.
func (s *ComponentSet) Add(c *MediaComponent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byIndex[c.StreamIndex()] = c
	if s.main == nil || (c.MediaType() == Video && s.main.MediaType() != Video) {
		if s.main != nil {
			s.main.Main = false
		}
		c.Main = true
		s.main = c
	}
}

// ByStreamIndex looks up the component that owns a demuxed stream index.
func (s *ComponentSet) ByStreamIndex(idx int) (*MediaComponent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byIndex[idx]
	return c, ok
}

// Main returns the component selected to drive playback position, or nil if
// the set is empty.
func (s *ComponentSet) Main() *MediaComponent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.main
}

// ForEach runs fn over a snapshot of the set's current components; fn may
// safely call back into the set (e.g. Dispose) without deadlocking.
func (s *ComponentSet) ForEach(fn func(*MediaComponent)) {
	s.mu.RLock()
	components := make([]*MediaComponent, 0, len(s.byIndex))
	for _, c := range s.byIndex {
		components = append(components, c)
	}
	s.mu.RUnlock()

	for _, c := range components {
		fn(c)
	}
}

// PacketBufferLength sums every component's queued packet byte length.
func (s *ComponentSet) PacketBufferLength() int64 {
	var total int64
	s.ForEach(func(c *MediaComponent) { total += c.PacketBufferLength() })
	return total
}

// PacketCount sums every component's queued packet count.
func (s *ComponentSet) PacketCount() int {
	var total int
	s.ForEach(func(c *MediaComponent) { total += c.PacketCount() })
	return total
}

// DispatchPacket hands a demuxed packet to the component that owns its
// stream index. It reports false, without enqueuing, for an unknown index
// (a stream the caller never opened a component for).
func (s *ComponentSet) DispatchPacket(streamIndex int, pkt *mediapacket.Packet) bool {
	c, ok := s.ByStreamIndex(streamIndex)
	if !ok {
		return false
	}
	c.EnqueuePacket(pkt)
	return true
}

// DecodeOne runs one pump step for c: subtitle components decode
// synchronously packet-by-packet; audio/video components feed whatever
// packets the decoder will currently accept, then attempt one receive.
func (s *ComponentSet) DecodeOne(c *MediaComponent) error {
	if c.MediaType() == Subtitle {
		mf, err := c.ReceiveNextSubtitle()
		if err != nil {
			return err
		}
		if mf != nil && s.OnSubtitleDecoded != nil {
			s.OnSubtitleDecoded(c, mf)
		}
		return nil
	}

	if _, err := c.FeedPacketsToDecoder(); err != nil {
		return err
	}
	mf, err := c.ReceiveNextFrame()
	if err != nil {
		return err
	}
	if mf != nil && s.OnFrameDecoded != nil {
		s.OnFrameDecoded(c, mf)
	}
	return nil
}

// Dispose releases every component in the set.
func (s *ComponentSet) Dispose() {
	s.ForEach(func(c *MediaComponent) { c.Dispose() })
}
