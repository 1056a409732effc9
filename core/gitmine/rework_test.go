package gitmine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReworkDetectorFirstTouchNeverCounts(t *testing.T) {
	d := NewReworkDetector()
	d.Observe("ada", "a.go", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	rapid, touches := d.Counts("ada")
	assert.Equal(t, 0, rapid)
	assert.Equal(t, 0, touches)
	assert.Equal(t, 0.0, d.Ratio("ada", 1))
}

func TestReworkDetectorWindow(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	d := NewReworkDetector()
	d.Observe("ada", "a.go", t0)
	// One day later: inside the five-day window.
	d.Observe("ada", "a.go", t0.Add(24*time.Hour))
	// Forty days later: outside the window.
	d.Observe("ada", "a.go", t0.Add(41*24*time.Hour))

	rapid, touches := d.Counts("ada")
	assert.Equal(t, 1, rapid)
	assert.Equal(t, 2, touches)
	assert.Equal(t, 50.0, d.Ratio("ada", 1))
}

func TestReworkDetectorExactWindowBoundaryCounts(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	d := NewReworkDetector()
	d.Observe("ada", "a.go", t0)
	d.Observe("ada", "a.go", t0.Add(RapidReworkWindow))

	rapid, touches := d.Counts("ada")
	assert.Equal(t, 1, rapid)
	assert.Equal(t, 1, touches)
}

func TestReworkDetectorWindowMeasuresLastTouch(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	d := NewReworkDetector()
	d.Observe("ada", "a.go", t0)
	// Eight days later: not rework relative to t0...
	d.Observe("ada", "a.go", t0.Add(8*24*time.Hour))
	// ...but two more days is rework relative to the second touch.
	d.Observe("ada", "a.go", t0.Add(10*24*time.Hour))

	rapid, touches := d.Counts("ada")
	assert.Equal(t, 1, rapid)
	assert.Equal(t, 2, touches)
}

func TestReworkDetectorIsolatesAuthorsAndFiles(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	d := NewReworkDetector()
	d.Observe("ada", "a.go", t0)
	// Different author touching the same file within the window.
	d.Observe("grace", "a.go", t0.Add(time.Hour))
	// Same author touching a different file within the window.
	d.Observe("ada", "b.go", t0.Add(2*time.Hour))

	rapid, touches := d.Counts("ada")
	assert.Equal(t, 0, rapid)
	assert.Equal(t, 0, touches)

	rapid, touches = d.Counts("grace")
	assert.Equal(t, 0, rapid)
	assert.Equal(t, 0, touches)
}

func TestReworkRatioRounding(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	d := NewReworkDetector()
	d.Observe("ada", "a.go", t0)
	d.Observe("ada", "a.go", t0.Add(time.Hour))
	d.Observe("ada", "a.go", t0.Add(30*24*time.Hour))
	d.Observe("ada", "a.go", t0.Add(60*24*time.Hour))

	// 1 rapid out of 3 eligible touches.
	assert.Equal(t, 33.3, d.Ratio("ada", 1))
	assert.Equal(t, 33.33, d.Ratio("ada", 2))
}

func TestReworkRatioUnknownAuthor(t *testing.T) {
	d := NewReworkDetector()
	assert.Equal(t, 0.0, d.Ratio("nobody", 1))
}
