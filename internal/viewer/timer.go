package viewer

import "time"

// Autoplay timing for image stories. Progress moves ProgressPerTick every
// TickInterval, so a story completes on the 50th tick.
const (
	StoryDuration = 5000 * time.Millisecond
	TickInterval  = 50 * time.Millisecond
)

// ProgressPerTick is the progress increment applied on each tick.
const ProgressPerTick = 2.0

// progressDone is the completion threshold.
const progressDone = 100.0
