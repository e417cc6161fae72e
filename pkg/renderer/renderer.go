// Package renderer pins the renderer as an external collaborator: the
// pipeline's renderer thread hands each component's current Block to its
// Renderer every render tick. pkg/renderer/sdlrender supplies a concrete
// video implementation; Noop satisfies the interface for media types this
// core decodes but does not itself draw.
package renderer

import (
	"mediacore/pkg/mediablock"
	"mediacore/pkg/mediaclock"
)

// Renderer displays one MediaComponent's current Block. clk is passed so a
// renderer can account for playback position (e.g. subtitle fade, audio
// resync) without the pipeline exposing its internals.
type Renderer interface {
	Render(block *mediablock.Block, clk mediaclock.Clock) error
	Close() error
}

// Noop implements Renderer by discarding every block. It is the default for
// a component the caller has not wired a real renderer for.
type Noop struct{}

func (Noop) Render(*mediablock.Block, mediaclock.Clock) error { return nil }
func (Noop) Close() error                                     { return nil }
