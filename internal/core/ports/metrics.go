package ports

import "time"

// Recorder collects engine metrics.
type Recorder interface {
	// ObserveRebuild records one finished rebuild of target.
	ObserveRebuild(target string, d time.Duration, err error)
	// IncSuperseded counts a debounce ticket that was replaced before settling.
	// layer is "path" or "target".
	IncSuperseded(layer string)
	// SetCacheRecords reports the number of real records in the module cache.
	SetCacheRecords(n int)
	// ObservePhase records the duration of a build phase.
	ObservePhase(phase string, d time.Duration)
}

// NopRecorder discards all metrics.
type NopRecorder struct{}

// ObserveRebuild implements Recorder.
func (NopRecorder) ObserveRebuild(string, time.Duration, error) {}

// IncSuperseded implements Recorder.
func (NopRecorder) IncSuperseded(string) {}

// SetCacheRecords implements Recorder.
func (NopRecorder) SetCacheRecords(int) {}

// ObservePhase implements Recorder.
func (NopRecorder) ObservePhase(string, time.Duration) {}
