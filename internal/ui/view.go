package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"liftcup/internal/progress"
)

func (m Model) viewHeader() string {
	done, total := 0, len(m.jobOrder)
	for _, id := range m.jobOrder {
		if m.jobs[id].done {
			done++
		}
	}
	name := "Lift Cup"
	if m.test {
		name += " (test mode)"
	}
	title := m.styles.Title.Render(name)
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Releases: %d/%d done • q: quit", done, total))
	return title + "\n" + sub
}

func (m Model) viewJobs() string {
	var b strings.Builder
	for _, id := range m.jobOrder {
		b.WriteString(m.viewJob(m.jobs[id]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) stageStyle(s progress.Stage) string {
	st := m.styles.JobInfo
	switch s {
	case progress.StageName, progress.StageCopy:
		st = m.styles.StagePrepare
	case progress.StageArchive, progress.StageVerify, progress.StageChecksum, progress.StageNFO, progress.StageRecovery:
		st = m.styles.StagePackage
	case progress.StageUpload, progress.StageCleanup:
		st = m.styles.StageUpload
	case progress.StageCompleted:
		st = m.styles.Success
	case progress.StageSkipped:
		st = m.styles.Warning
	case progress.StageError:
		st = m.styles.Error
	}
	return st.Render(string(s))
}

func (m Model) viewJob(js *jobState) string {
	left := m.styles.JobTitle.Render(truncate(js.title(), 60))

	var right string
	switch {
	case js.err != nil:
		right = m.styles.Error.Render("✗ error")
	case js.skipped:
		right = m.styles.Warning.Render("- skipped")
	case js.done:
		right = m.styles.Success.Render("✓ done")
	case !js.started:
		right = m.styles.Faint.Render("queued")
	case js.percent >= 0 && js.percent <= 100:
		right = fmt.Sprintf("%s %5.1f%%", js.bar.ViewAs(js.percent/100.0), js.percent)
		if js.eta > 0 {
			right += m.styles.Faint.Render(" ETA " + js.eta.String())
		}
	default:
		right = m.styles.Spinner.Render(js.spinner.View()) + " " + m.styles.Faint.Render("working")
	}

	line1 := fmt.Sprintf("%s  %s%s", left, m.stageStyle(js.stage), m.styles.Faint.Render(stageStep(js.stage)))
	line2 := m.styles.JobInfo.Render(js.status)
	return m.styles.Box.Render(line1 + "\n" + right + "\n" + line2)
}

func (m Model) viewSummary() string {
	var b strings.Builder
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		if !js.done || js.err != nil || js.skipped || js.outputDir == "" {
			continue
		}
		line := "  • " + js.outputDir
		if js.bytes > 0 {
			line += " (" + humanize.IBytes(uint64(js.bytes)) + ")"
		}
		b.WriteString(m.styles.Success.Render(line))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return ""
	}
	return m.styles.Subtitle.Render("✓ Built releases:") + "\n" + b.String()
}

// stageStep renders " (n/total)" for working stages.
func stageStep(s progress.Stage) string {
	for i, st := range progress.Stages {
		if st == s {
			return fmt.Sprintf(" (%d/%d)", i+1, len(progress.Stages))
		}
	}
	return ""
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
