// Package lowres adaptively raises or lowers a video component's low-
// resolution decode index in response to measured decode duration, the same
// hysteresis-counter technique flow-frame's pkg/video.FrameSkipper uses to
// adapt frame-skip aggressiveness to measured render performance.
package lowres

import (
	"log"
	"sync"
	"time"

	"mediacore/pkg/mediaopts"
)

// Controller tracks consecutive slow/good decode observations and steps the
// low-resolution index up or down once a run crosses its hysteresis
// threshold, preventing the index from thrashing on a single slow frame.
type Controller struct {
	mu sync.RWMutex

	level    mediaopts.LowResolutionIndex
	maxLevel mediaopts.LowResolutionIndex

	consecutiveSlow int
	consecutiveGood int

	slowThreshold time.Duration
	goodThreshold time.Duration

	enterNextAfter int
	exitPrevAfter  int
}

// NewController returns a controller starting at LowResFull, willing to
// raise the index up to (and no further than) maxLevel.
func NewController(maxLevel mediaopts.LowResolutionIndex) *Controller {
	return &Controller{
		maxLevel:       maxLevel,
		slowThreshold:  30 * time.Millisecond,
		goodThreshold:  12 * time.Millisecond,
		enterNextAfter: 3,
		exitPrevAfter:  60,
	}
}

// Observe records one decode's wall-clock duration and returns the level
// the component should now decode at.
func (c *Controller) Observe(decodeDuration time.Duration) mediaopts.LowResolutionIndex {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case decodeDuration > c.slowThreshold:
		c.consecutiveSlow++
		c.consecutiveGood = 0
	case decodeDuration < c.goodThreshold:
		c.consecutiveGood++
		c.consecutiveSlow = 0
	default:
		c.consecutiveSlow = 0
		c.consecutiveGood = 0
	}

	if c.consecutiveSlow >= c.enterNextAfter && c.level < c.maxLevel {
		c.level++
		c.consecutiveSlow = 0
		log.Printf("lowres: decode slow, raising low-res index to %d", c.level)
	} else if c.consecutiveGood >= c.exitPrevAfter && c.level > mediaopts.LowResFull {
		c.level--
		c.consecutiveGood = 0
		log.Printf("lowres: decode fast, lowering low-res index to %d", c.level)
	}

	return c.level
}

// Level returns the current low-resolution index without recording a new
// observation.
func (c *Controller) Level() mediaopts.LowResolutionIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

// Reset returns the controller to LowResFull with clean hysteresis counters,
// used when a component reopens against a new stream.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = mediaopts.LowResFull
	c.consecutiveSlow = 0
	c.consecutiveGood = 0
}
