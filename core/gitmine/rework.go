package gitmine

import (
	"time"

	"github.com/kyhsueh/codegrade/schema"
)

// RapidReworkWindow is the fixed policy window for rapid-rework detection.
// A second touch of the same file by the same author within this window is
// counted as rework. The constant is deliberately not configurable so that
// identical inputs always produce identical scores.
const RapidReworkWindow = 5 * 24 * time.Hour

// touchKey is the composite arena key for the last-touch map, keeping the
// windowed check O(1) per commit touch.
type touchKey struct {
	author string
	path   string
}

// ReworkDetector maintains a per-(author, file) last-touch timestamp and
// tallies rapid-rework events per author. State is ephemeral; it is
// discarded after the pass.
type ReworkDetector struct {
	lastTouch map[touchKey]time.Time
	rapid     map[string]int
	touches   map[string]int
}

// NewReworkDetector creates an empty detector.
func NewReworkDetector() *ReworkDetector {
	return &ReworkDetector{
		lastTouch: make(map[touchKey]time.Time),
		rapid:     make(map[string]int),
		touches:   make(map[string]int),
	}
}

// Observe feeds one file touch. Touches must arrive in ascending timestamp
// order. An author's first touch of a file is never rework and does not
// count toward the eligible-touch total.
func (d *ReworkDetector) Observe(author, path string, ts time.Time) {
	key := touchKey{author: author, path: path}
	prev, seen := d.lastTouch[key]
	d.lastTouch[key] = ts
	if !seen {
		return
	}

	d.touches[author]++
	if ts.Sub(prev) <= RapidReworkWindow {
		d.rapid[author]++
	}
}

// Counts returns the rapid-rework count and eligible-touch total for an author.
func (d *ReworkDetector) Counts(author string) (rapid, touches int) {
	return d.rapid[author], d.touches[author]
}

// Ratio returns the author's rapid-rework percentage in [0,100], rounded to
// the given precision. Authors with no eligible touches score zero.
func (d *ReworkDetector) Ratio(author string, precision int) float64 {
	touches := d.touches[author]
	if touches == 0 {
		return 0
	}
	return schema.Round(float64(d.rapid[author])/float64(touches)*100, precision)
}
