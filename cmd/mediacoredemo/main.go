// Command mediacoredemo wires the full playback pipeline to an SDL2 window:
// open a URL with avformatdemux, open one MediaComponent per stream, drive
// them with pipeline.Pipeline, and paint the video component's blocks with
// sdlrender.VideoRenderer. It is a thin wiring demo, not a player CLI --
// seek, subtitle selection, and every other high-level playback command stay
// out of scope, same as this core's own package surface.
//
// SDL2 bootstrap (driver fallback probing, ARM64 memory tuning) is adapted
// from flow-frame's main.go.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/joho/godotenv"
	"github.com/veandco/go-sdl2/sdl"

	"mediacore/pkg/component"
	"mediacore/pkg/demux/avformatdemux"
	"mediacore/pkg/hwaccel"
	"mediacore/pkg/mediablock"
	"mediacore/pkg/mediaclock"
	"mediacore/pkg/mediaopts"
	"mediacore/pkg/pipeline"
	"mediacore/pkg/renderer"
	"mediacore/pkg/renderer/sdlrender"
	"mediacore/pkg/rgbaconvert"
)

const (
	fallbackWidth  = 1280
	fallbackHeight = 720
)

func main() {
	runtime.LockOSThread()
	setupARMMemoryManagement()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Printf("mediacoredemo: no .env file found: %v", err)
	}

	url := flag.String("url", "", "media URL or file path to open (required)")
	hwDevice := flag.String("hwaccel", "", "hardware acceleration device, e.g. vaapi")
	flag.Parse()
	if *url == "" {
		fmt.Fprintln(os.Stderr, "usage: mediacoredemo -url <path-or-url> [-hwaccel <device>]")
		os.Exit(2)
	}

	if err := initializeSDL2(); err != nil {
		log.Fatalf("mediacoredemo: SDL2 init: %v", err)
	}
	defer sdl.Quit()

	window, winRenderer, err := createWindowAndRenderer("mediacoredemo")
	if err != nil {
		log.Fatalf("mediacoredemo: create window: %v", err)
	}
	defer window.Destroy()
	defer winRenderer.Destroy()

	if err := run(*url, *hwDevice, winRenderer); err != nil {
		log.Fatalf("mediacoredemo: %v", err)
	}
}

func run(url, hwDevice string, sdlRenderer *sdl.Renderer) error {
	container, err := avformatdemux.Open(url)
	if err != nil {
		return fmt.Errorf("open %q: %w", url, err)
	}
	defer container.Close()

	options := mediaopts.Default()
	options.VideoHardwareDevice = hwDevice

	components := component.NewComponentSet()
	accel := hwaccel.Default{}
	for _, stream := range container.Streams() {
		mc, err := component.NewComponent(container, stream.Index(), &options, accel)
		if err != nil {
			log.Printf("mediacoredemo: skipping stream %d: %v", stream.Index(), err)
			continue
		}
		components.Add(mc)
	}
	defer components.Dispose()

	if components.Main() == nil {
		return fmt.Errorf("no decodable streams found in %q", url)
	}

	converter := rgbaconvert.NewConverter()
	defer converter.Close()
	videoRenderer := &lazyVideoRenderer{sdlRenderer: sdlRenderer}
	defer videoRenderer.Close()

	clock := mediaclock.NewWallClock()
	renderers := map[component.MediaType]renderer.Renderer{
		component.Video: videoRenderer,
	}
	materializers := map[component.MediaType]mediablock.Materializer{
		component.Video: videoMaterializer{converter: converter},
	}

	p := pipeline.New(container, components, &options, clock, renderers, materializers)
	p.Start()
	clock.Play()

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_SPACE {
					if clock.IsPaused() {
						clock.Play()
					} else {
						clock.Pause()
					}
				}
			}
		}
		time.Sleep(8 * time.Millisecond)
	}

	p.StopWorkers()
	return nil
}

// videoMaterializer converts a decoded video AVFrame to RGBA bytes via
// rgbaconvert, the caller-side conversion mediablock's default passthrough
// Materializer deliberately leaves undone.
type videoMaterializer struct {
	converter *rgbaconvert.Converter
}

// videoPayload is this demo's Block.Payload shape for video: the dimensions
// travel alongside the pixels since sdlrender.VideoRenderer needs them once,
// up front, to allocate its streaming texture.
type videoPayload struct {
	Pixels        []byte
	Width, Height int
}

func (m videoMaterializer) Materialize(f *component.MediaFrame) (interface{}, error) {
	avFrame := f.AVFrame()
	if avFrame == nil {
		return nil, fmt.Errorf("mediacoredemo: video frame has no AVFrame payload")
	}
	pixels, w, h, err := m.converter.Convert(avFrame.Ptr())
	if err != nil {
		return nil, err
	}
	return videoPayload{Pixels: pixels, Width: w, Height: h}, nil
}

// setupARMMemoryManagement configures ARM64-specific memory settings and CGO
// environment, adapted verbatim from flow-frame's main.go for the same
// Raspberry Pi deployment target.
func setupARMMemoryManagement() {
	os.Setenv("GODEBUG", "madvdontneed=1")
	os.Setenv("GOMAXPROCS", "1")
	os.Setenv("GOGC", "25")
	os.Setenv("GOMEMLIMIT", "256MiB")
	os.Setenv("CGO_CFLAGS", "-O1 -g -fPIC")
	os.Setenv("CGO_LDFLAGS", "-Wl,--no-as-needed -fPIC")

	debug.SetGCPercent(25)
	debug.SetMemoryLimit(256 << 20)
}

// initializeSDL2 tries each platform's video drivers in turn, same fallback
// order as flow-frame's main.go.
func initializeSDL2() error {
	var drivers []string
	if runtime.GOOS == "darwin" {
		drivers = []string{"cocoa", "software", "dummy"}
	} else {
		drivers = []string{"kmsdrm", "drm", "wayland", "x11", "software", "dummy"}
	}
	if env := os.Getenv("SDL_VIDEODRIVER"); env != "" {
		drivers = append([]string{env}, drivers...)
	}

	for _, driver := range drivers {
		os.Setenv("SDL_VIDEODRIVER", driver)
		if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
			log.Printf("mediacoredemo: SDL2 driver %s failed: %v", driver, err)
			sdl.Quit()
			continue
		}
		log.Printf("mediacoredemo: SDL2 initialized with %s driver", driver)
		return nil
	}
	return fmt.Errorf("all SDL2 video drivers failed")
}

func createWindowAndRenderer(title string) (*sdl.Window, *sdl.Renderer, error) {
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		fallbackWidth, fallbackHeight, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, nil, fmt.Errorf("create window: %w", err)
	}

	r, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		r, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			window.Destroy()
			return nil, nil, fmt.Errorf("create renderer: %w", err)
		}
	}
	r.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	return window, r, nil
}

// lazyVideoRenderer defers sdlrender.VideoRenderer allocation to the first
// Render call, since the decoded video's dimensions are only known once
// videoMaterializer has produced a videoPayload.
type lazyVideoRenderer struct {
	sdlRenderer *sdl.Renderer
	inner       *sdlrender.VideoRenderer
}

func (v *lazyVideoRenderer) Render(block *mediablock.Block, clk mediaclock.Clock) error {
	payload, ok := block.Payload.(videoPayload)
	if !ok {
		return fmt.Errorf("mediacoredemo: video block payload is %T, want videoPayload", block.Payload)
	}
	if v.inner == nil {
		inner, err := sdlrender.NewVideoRenderer(v.sdlRenderer, int32(payload.Width), int32(payload.Height))
		if err != nil {
			return err
		}
		v.inner = inner
	}
	pixelBlock := &mediablock.Block{
		MediaType: block.MediaType,
		PTS:       block.PTS,
		Duration:  block.Duration,
		Payload:   payload.Pixels,
	}
	return v.inner.Render(pixelBlock, clk)
}

func (v *lazyVideoRenderer) Close() error {
	if v.inner == nil {
		return nil
	}
	return v.inner.Close()
}
