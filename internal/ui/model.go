package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"liftcup/internal/progress"
)

// RunFunc processes one source file, reporting through rep under jobID.
type RunFunc func(ctx context.Context, jobID, source string, rep progress.Reporter) error

// Model is the bubbletea model for a batch of releases. Releases share the
// temp dir, so they are processed one at a time in argument order.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	run    RunFunc

	sources  []string
	jobOrder []string
	jobs     map[string]*jobState
	next     int // index of the next source to start
	test     bool

	width, height int
	styles        Styles

	// Fed by teaReporter from the job goroutine.
	eventCh chan tea.Msg
}

// NewModel prepares one job per source. test only changes wording.
func NewModel(ctx context.Context, sources []string, run RunFunc, test bool) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	jobs := make(map[string]*jobState, len(sources))
	order := make([]string, 0, len(sources))
	for i, src := range sources {
		id := toID(i)
		js := newJobState(id, src, sty)
		jobs[id] = &js
		order = append(order, id)
	}

	return Model{
		ctx:      c,
		cancel:   cancel,
		run:      run,
		sources:  sources,
		jobOrder: order,
		jobs:     jobs,
		test:     test,
		styles:   sty,
		eventCh:  make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		cmds = append(cmds, m.jobs[id].spinner.Tick)
	}
	cmds = append(cmds, m.listenEventsCmd(), func() tea.Msg { return startMsg{} })
	return tea.Batch(cmds...)
}

// startNext marks the next queued job as started and returns the command
// that runs it, or allDone when the queue is drained.
func (m *Model) startNext() tea.Cmd {
	if m.ctx.Err() != nil || m.next >= len(m.sources) {
		return func() tea.Msg { return allDoneMsg{} }
	}
	id := m.jobOrder[m.next]
	src := m.sources[m.next]
	m.next++
	js := m.jobs[id]
	js.started = true
	js.status = "Starting"

	ctx, run, ch := m.ctx, m.run, m.eventCh
	return func() tea.Msg {
		err := run(ctx, id, src, teaReporter{ctx: ctx, ch: ch})
		return jobFinishedMsg{JobID: id, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case startMsg:
		cmd := m.startNext()
		return m, cmd

	case jobUpdateMsg, jobLogMsg, jobResultMsg:
		m.handleEvent(msg)
		return m, m.listenEventsCmd()

	case jobFinishedMsg:
		// Everything the job reported is queued by now.
		m.drainEvents()
		if js, ok := m.jobs[msg.JobID]; ok {
			js.done = true
			if msg.Err != nil && js.err == nil {
				js.err = msg.Err
				js.stage = progress.StageError
				js.status = msg.Err.Error()
				js.percent = -1
			}
		}
		cmd := m.startNext()
		return m, cmd

	case allDoneMsg:
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleEvent(msg tea.Msg) {
	switch msg := msg.(type) {
	case jobUpdateMsg:
		if js, ok := m.jobs[msg.U.JobID]; ok && !js.resulted {
			js.apply(msg.U)
		}
	case jobLogMsg:
		if js, ok := m.jobs[msg.L.JobID]; ok {
			js.appendLog(strings.TrimRight(msg.L.Line, "\r\n"))
		}
	case jobResultMsg:
		m.applyResult(msg.R)
	}
}

func (m Model) drainEvents() {
	for {
		select {
		case msg := <-m.eventCh:
			m.handleEvent(msg)
		default:
			return
		}
	}
}

func (m Model) applyResult(r progress.Result) {
	js, ok := m.jobs[r.JobID]
	if !ok {
		return
	}
	js.resulted = true
	if r.SceneName != "" {
		js.sceneName = r.SceneName
	}
	switch {
	case r.Err != nil:
		js.err = r.Err
		js.stage = progress.StageError
		js.status = r.Err.Error()
		js.percent = -1
	case r.Skipped:
		js.skipped = true
		js.stage = progress.StageSkipped
		js.percent = 100
	default:
		js.stage = progress.StageCompleted
		js.percent = 100
		js.outputDir = r.OutputDir
		js.bytes = r.Bytes
		verb := "Built"
		if m.test {
			verb = "Planned"
		}
		if r.Bytes > 0 {
			js.status = fmt.Sprintf("%s: %s (%s)", verb, js.title(), humanize.IBytes(uint64(r.Bytes)))
		} else {
			js.status = fmt.Sprintf("%s: %s", verb, js.title())
		}
	}
}

func (m Model) View() string {
	summary := m.viewSummary()
	if summary != "" {
		return m.viewHeader() + "\n\n" + m.viewJobs() + "\n" + summary
	}
	return m.viewHeader() + "\n\n" + m.viewJobs()
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case msg := <-m.eventCh:
			return msg
		}
	}
}

// Failures returns one error per failed job, prefixed with its name.
func (m Model) Failures() []error {
	var errs []error
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if js.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", js.title(), js.err))
		}
	}
	return errs
}

type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

// send blocks until the message is queued or the program is gone.
func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func (r teaReporter) Update(u progress.Update) {
	// Terminal stages must not be dropped.
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError || u.Stage == progress.StageSkipped {
		r.send(jobUpdateMsg{U: u})
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res})
}

func toID(i int) string {
	return "job-" + strconv.Itoa(i)
}
