// Package sdlrender is the reference Renderer implementation, adapted from
// flow-frame's Player.Draw/updateTexture (pkg/mpeg/player.go): a streaming
// RGBA texture updated from the current Block's pixel payload and copied to
// the screen with the same letterboxing math.
package sdlrender

import (
	"fmt"
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"mediacore/pkg/mediablock"
	"mediacore/pkg/mediaclock"
)

// VideoRenderer draws video Blocks to an SDL2 renderer. Block.Payload must
// be []byte RGBA32 pixel data sized width*height*4 -- producing that from a
// decoded AVFrame is pixel-format conversion, out of this core's scope, and
// is the caller's mediablock.Materializer's job.
type VideoRenderer struct {
	mu                         sync.Mutex
	renderer                   *sdl.Renderer
	texture                    *sdl.Texture
	width, height              int32
	screenWidth, screenHeight  int32
}

// NewVideoRenderer allocates a streaming texture sized to the video's
// decoded dimensions.
func NewVideoRenderer(r *sdl.Renderer, width, height int32) (*VideoRenderer, error) {
	texture, err := r.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_STREAMING, width, height)
	if err != nil {
		return nil, fmt.Errorf("sdlrender: create texture: %w", err)
	}
	return &VideoRenderer{
		renderer:     r,
		texture:      texture,
		width:        width,
		height:       height,
		screenWidth:  width,
		screenHeight: height,
	}, nil
}

// SetScreenSize updates the output dimensions Render letterboxes into.
func (v *VideoRenderer) SetScreenSize(w, h int32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.screenWidth, v.screenHeight = w, h
}

// Render implements renderer.Renderer.
func (v *VideoRenderer) Render(block *mediablock.Block, _ mediaclock.Clock) error {
	if block == nil {
		return nil
	}
	pixels, ok := block.Payload.([]byte)
	if !ok {
		return fmt.Errorf("sdlrender: video block payload is %T, want []byte RGBA", block.Payload)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.updateTextureLocked(pixels); err != nil {
		return err
	}
	return v.drawLocked()
}

func (v *VideoRenderer) updateTextureLocked(frameData []byte) error {
	dst, _, err := v.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("sdlrender: lock texture: %w", err)
	}
	defer v.texture.Unlock()
	copy(dst, frameData)
	return nil
}

func (v *VideoRenderer) drawLocked() error {
	scaleW := float64(v.screenWidth) / float64(v.width)
	scaleH := float64(v.screenHeight) / float64(v.height)
	scale := scaleW
	if scaleH < scaleW {
		scale = scaleH
	}

	renderWidth := int32(float64(v.width) * scale)
	renderHeight := int32(float64(v.height) * scale)

	dst := sdl.Rect{
		X: (v.screenWidth - renderWidth) / 2,
		Y: (v.screenHeight - renderHeight) / 2,
		W: renderWidth,
		H: renderHeight,
	}
	return v.renderer.Copy(v.texture, nil, &dst)
}

// Close destroys the underlying texture. Safe to call more than once.
func (v *VideoRenderer) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.texture != nil {
		v.texture.Destroy()
		v.texture = nil
	}
	return nil
}
