package controller

// Stage is a step of the profiling pipeline.
type Stage string

// Pipeline stages, in order.
const (
	StageIdle       Stage = "idle"
	StageValidating Stage = "validating"
	StageQuerying   Stage = "querying"
	StageProfiling  Stage = "profiling"
	StageExporting  Stage = "exporting"
	StageReady      Stage = "ready"
	StageError      Stage = "error"
	StageCancelled  Stage = "cancelled"
)

// Label is the progress text shown for the stage.
func (s Stage) Label() string {
	switch s {
	case StageValidating:
		return "Checking table name..."
	case StageQuerying:
		return "Fetching data..."
	case StageProfiling:
		return "Generating profiling report..."
	case StageExporting:
		return "Preparing download..."
	case StageReady:
		return "Report ready."
	case StageError:
		return "Failed."
	case StageCancelled:
		return "Cancelled."
	}
	return ""
}

// Terminal reports whether no further stages follow.
func (s Stage) Terminal() bool {
	return s == StageReady || s == StageError || s == StageCancelled || s == StageIdle
}

// Observer receives pipeline progress. Calls happen on the goroutine
// running the pipeline.
type Observer interface {
	OnStage(stage Stage)
	OnColumn(column string, done, total int)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Stage  func(stage Stage)
	Column func(column string, done, total int)
}

// OnStage implements Observer.
func (o ObserverFuncs) OnStage(stage Stage) {
	if o.Stage != nil {
		o.Stage(stage)
	}
}

// OnColumn implements Observer.
func (o ObserverFuncs) OnColumn(column string, done, total int) {
	if o.Column != nil {
		o.Column(column, done, total)
	}
}
