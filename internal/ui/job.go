package ui

import (
	"path/filepath"
	"time"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"liftcup/internal/progress"
)

type jobState struct {
	id      string
	source  string
	stage   progress.Stage
	status  string
	err     error
	done    bool
	skipped bool
	started bool

	// set once the final Result arrived; later updates are stale
	resulted bool

	sceneName string
	outputDir string
	bytes     int64
	percent   float64 // -1 means unknown
	eta       time.Duration

	spinner spinner.Model
	bar     bubblesprogress.Model

	// recent tool output, capped at maxLogLines
	logsRing []string
}

const maxLogLines = 200

func newJobState(id, source string, styles Styles) jobState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return jobState{
		id:      id,
		source:  source,
		stage:   progress.StageName,
		status:  "Queued",
		percent: -1,
		spinner: sp,
		bar:     bar,
	}
}

func (js *jobState) title() string {
	if js.sceneName != "" {
		return js.sceneName
	}
	return filepath.Base(js.source)
}

func (js *jobState) apply(u progress.Update) {
	js.stage = u.Stage
	js.percent = u.Percent
	if u.Message != "" {
		js.status = u.Message
	}
	if u.ETA != nil {
		js.eta = *u.ETA
	} else {
		js.eta = 0
	}
	if u.Bytes != nil {
		js.bytes = *u.Bytes
	}
}

func (js *jobState) appendLog(line string) {
	if len(js.logsRing) >= maxLogLines {
		js.logsRing = js.logsRing[1:]
	}
	js.logsRing = append(js.logsRing, line)
}
