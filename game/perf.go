package game

import (
	"sort"
	"time"
)

// timingSmoothing is the weight of each new sample in the running average,
// roughly a half-second memory at 60 updates per second.
const timingSmoothing = 1.0 / 32

// EmitterTiming is the smoothed field update cost of one emitter.
type EmitterTiming struct {
	Name string
	Avg  time.Duration
}

// emitterClock keeps an exponential moving average of update time per emitter.
type emitterClock struct {
	avg map[string]float64 // nanoseconds
}

func newEmitterClock() *emitterClock {
	return &emitterClock{avg: make(map[string]float64)}
}

func (c *emitterClock) observe(name string, d time.Duration) {
	prev, ok := c.avg[name]
	if !ok {
		c.avg[name] = float64(d)
		return
	}
	c.avg[name] = prev + timingSmoothing*(float64(d)-prev)
}

func (c *emitterClock) clear() {
	clear(c.avg)
}

// snapshot returns the averages slowest first, ties by name, and their sum.
func (c *emitterClock) snapshot() ([]EmitterTiming, time.Duration) {
	rows := make([]EmitterTiming, 0, len(c.avg))
	var total time.Duration
	for name, ns := range c.avg {
		d := time.Duration(ns)
		rows = append(rows, EmitterTiming{Name: name, Avg: d})
		total += d
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Avg != rows[j].Avg {
			return rows[i].Avg > rows[j].Avg
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, total
}
