package ui

import "liftcup/internal/progress"

type jobUpdateMsg struct {
	U progress.Update
}

type jobLogMsg struct {
	L progress.Log
}

type jobResultMsg struct {
	R progress.Result
}

// jobFinishedMsg is sent when a RunFunc returns, whether or not it managed
// to report a Result.
type jobFinishedMsg struct {
	JobID string
	Err   error
}

type startMsg struct{}

type allDoneMsg struct{}
