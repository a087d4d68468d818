// Package media defines the domain model shared by stream resolution, playback
// sessions and server reporting: items, media sources, streams and segments.
package media

import (
	"math"
	"time"
)

// TicksPerSecond is the server's time base. All positions and durations that
// cross the server boundary are expressed in ticks of 100ns.
const TicksPerSecond int64 = 10_000_000

// TicksToSeconds converts a server tick count to surface seconds.
func TicksToSeconds(ticks int64) float64 {
	return float64(ticks) / float64(TicksPerSecond)
}

// SecondsToTicks converts surface seconds to server ticks, rounding half away
// from zero so that repeated round-trips stay stable.
func SecondsToTicks(seconds float64) int64 {
	return int64(math.Round(seconds * float64(TicksPerSecond)))
}

// TicksToDuration converts a tick count to a time.Duration.
func TicksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks * 100)
}

// DurationToTicks converts a time.Duration to server ticks.
func DurationToTicks(d time.Duration) int64 {
	return int64(d) / 100
}
