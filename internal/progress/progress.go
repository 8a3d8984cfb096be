package progress

import "time"

// Stage identifies a high-level step in the pipeline.
type Stage string

const (
	StageName      Stage = "name"
	StageCopy      Stage = "copy"
	StageArchive   Stage = "archive"
	StageVerify    Stage = "verify"
	StageChecksum  Stage = "checksum"
	StageNFO       Stage = "nfo"
	StageRecovery  Stage = "recovery"
	StageUpload    Stage = "upload"
	StageCleanup   Stage = "cleanup"
	StageCompleted Stage = "completed"
	StageSkipped   Stage = "skipped"
	StageError     Stage = "error"
)

// Stages lists the working stages in pipeline order.
var Stages = []Stage{
	StageName, StageCopy, StageArchive, StageVerify, StageChecksum,
	StageNFO, StageRecovery, StageUpload, StageCleanup,
}

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Update conveys progress or stage changes for a job.
// Percent is 0..100 when known; set to a negative value (e.g., -1) to mean unknown.
type Update struct {
	JobID   string
	Stage   Stage
	Percent float64 // 0..100, or <0 if unknown

	ETA     *time.Duration // optional
	Bytes   *int64         // optional cumulative bytes
	Message string         // short human-friendly status line
}

// Log is a structured log line associated with a job.
type Log struct {
	JobID  string
	Stream LogStream
	Line   string
}

// Result is emitted once per job when it completes, is skipped or fails.
type Result struct {
	JobID     string
	SceneName string
	OutputDir string
	Bytes     int64
	Skipped   bool
	Err       error // nil on success
}

// Reporter is implemented by UI or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Log(l Log)
	Result(r Result)
}
