package render

import (
	"sort"
	"sync"
	"time"
)

type renderSample struct {
	timestamp  time.Time
	durationMs int64
	bytes      int64
	format     string
	tpl        string
}

// FormatStats aggregates renders of one output format.
type FormatStats struct {
	Count      int   `json:"count"`
	BytesTotal int64 `json:"bytes_total"`
}

// StatsSnapshot is a point-in-time aggregate of recent renders.
type StatsSnapshot struct {
	Count       int                    `json:"count"`
	BytesTotal  int64                  `json:"bytes_total"`
	ByFormat    map[string]FormatStats `json:"by_format"`
	ByTemplate  map[string]int         `json:"by_template"`
	MinMs       int64                  `json:"min_ms"`
	MaxMs       int64                  `json:"max_ms"`
	AvgMs       float64                `json:"avg_ms"`
	P50Ms       float64                `json:"p50_ms"`
	P95Ms       float64                `json:"p95_ms"`
}

// Stats tracks renders within a rolling window.
type Stats struct {
	mu      sync.Mutex
	samples []renderSample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{
		samples: make([]renderSample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds one completed render to the window.
func (s *Stats) Record(format, tpl string, durationMs, byteCount int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, renderSample{
		timestamp:  now,
		durationMs: durationMs,
		bytes:      byteCount,
		format:     format,
		tpl:        tpl,
	})
}

func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	snap := StatsSnapshot{
		ByFormat:   map[string]FormatStats{},
		ByTemplate: map[string]int{},
	}
	if len(s.samples) == 0 {
		return snap
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		snap.BytesTotal += sm.bytes

		fs := snap.ByFormat[sm.format]
		fs.Count++
		fs.BytesTotal += sm.bytes
		snap.ByFormat[sm.format] = fs
		snap.ByTemplate[sm.tpl]++
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
