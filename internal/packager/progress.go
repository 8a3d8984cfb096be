package packager

import (
	"regexp"
	"strconv"
	"strings"

	"liftcup/internal/progress"
)

var percentRe = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%`)

// ParsePercentLine extracts the last percentage printed on an archiver or
// par2 output line ("Adding  x.mkv  57%", "Processing: 45.3%").
func ParsePercentLine(line, jobID string, stage progress.Stage, msg string) (progress.Update, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return progress.Update{}, false
	}
	m := percentRe.FindAllStringSubmatch(line, -1)
	if len(m) == 0 {
		return progress.Update{}, false
	}
	p, err := strconv.ParseFloat(m[len(m)-1][1], 64)
	if err != nil || p > 100 {
		return progress.Update{}, false
	}
	return progress.Update{
		JobID:   jobID,
		Stage:   stage,
		Percent: p,
		Message: msg,
	}, true
}

// ArchiveTracker turns per-file rar percentages into a percentage of the
// whole archive, weighting each file by its size.
type ArchiveTracker struct {
	sizes   []int64
	total   int64
	done    int64
	current int
	last    float64
}

// NewArchiveTracker creates a tracker for files archived in the given order.
func NewArchiveTracker(sizes []int64) *ArchiveTracker {
	t := &ArchiveTracker{sizes: sizes}
	for _, s := range sizes {
		t.total += s
	}
	return t
}

// Line consumes one line of rar output. It returns the overall percentage
// and true when the line carried progress.
func (t *ArchiveTracker) Line(line string) (float64, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "Adding") && t.last > 0 {
		// A new file started; the previous one is complete.
		t.advance()
	}
	u, ok := ParsePercentLine(trimmed, "", progress.StageArchive, "")
	if !ok {
		return 0, false
	}
	t.last = u.Percent
	if t.total <= 0 {
		return u.Percent, true
	}
	if t.current >= len(t.sizes) {
		// Recovery record pass after the last file.
		return 100, true
	}
	cur := float64(t.sizes[t.current]) * u.Percent / 100
	overall := (float64(t.done) + cur) / float64(t.total) * 100
	if overall > 100 {
		overall = 100
	}
	return overall, true
}

func (t *ArchiveTracker) advance() {
	if t.current < len(t.sizes) {
		t.done += t.sizes[t.current]
		t.current++
	}
	t.last = 0
}
