package uploader

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"liftcup/internal/progress"
)

var (
	percentRe = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)%`)
	speedRe   = regexp.MustCompile(`(?i)\bat\s+([\d.]+\s*[KMG]i?B/s)`)
	etaRe     = regexp.MustCompile(`(?i)\bETA:?\s+([\d:]+)`)
)

// ParseProgress parses poster progress lines such as
// "[12/40]  30.0% at 5.20MiB/s ETA 01:10". Lines without a percentage are
// not progress.
func ParseProgress(line, jobID string) (u progress.Update, ok bool) {
	line = strings.TrimSpace(line)
	m := percentRe.FindStringSubmatch(line)
	if m == nil {
		return progress.Update{}, false
	}
	percent, err := strconv.ParseFloat(m[1], 64)
	if err != nil || percent > 100 {
		return progress.Update{}, false
	}

	msg := "Uploading"
	if sm := speedRe.FindStringSubmatch(line); sm != nil {
		msg += " at " + strings.ReplaceAll(sm[1], " ", "")
	}

	var eta *time.Duration
	if em := etaRe.FindStringSubmatch(line); em != nil {
		if d, err := parseETA(em[1]); err == nil {
			eta = &d
		}
	}

	return progress.Update{
		JobID:   jobID,
		Stage:   progress.StageUpload,
		Percent: percent,
		ETA:     eta,
		Message: msg,
	}, true
}

// parseETA parses duration strings like "00:04", "01:23:45", etc.
func parseETA(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		nums[i] = n
	}
	switch len(nums) {
	case 1:
		return time.Duration(nums[0]) * time.Second, nil
	case 2:
		return time.Duration(nums[0])*time.Minute + time.Duration(nums[1])*time.Second, nil
	case 3:
		return time.Duration(nums[0])*time.Hour + time.Duration(nums[1])*time.Minute + time.Duration(nums[2])*time.Second, nil
	default:
		return 0, strconv.ErrSyntax
	}
}
