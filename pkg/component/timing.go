package component

import "time"

// ptsToDuration converts a raw PTS in stream timebase units (num/den
// seconds per tick) to a time.Duration. A zero denominator (unset timebase)
// maps to zero rather than dividing by zero.
func ptsToDuration(pts int64, num, den int) time.Duration {
	if den == 0 || num == 0 {
		return 0
	}
	return time.Duration(pts) * time.Duration(num) * time.Second / time.Duration(den)
}

// durationFromSamples derives an audio frame's playback duration from its
// sample count and sample rate.
func durationFromSamples(samples, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(samples) * time.Second / time.Duration(rate)
}
