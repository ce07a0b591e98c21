// Package workflow runs the fixed two-stage documentation pipeline: fetch
// the project's cards from the board service, then generate document text
// from them. The pipeline is an explicit state machine over a State value;
// exactly one FETCH→GENERATE transition happens per run and there is no
// branching, looping, or internal retry.
package workflow

import (
	"autodocgen/internal/trello"
)

// Stage is the position of a run inside the pipeline.
type Stage int

const (
	StageFetch Stage = iota
	StageGenerate
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageFetch:
		return "fetch"
	case StageGenerate:
		return "generate"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the stage ends the run.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// State is the record threaded by value through one pipeline run. Each run
// owns its State exclusively; nothing is shared between concurrent runs.
type State struct {
	Stage Stage

	// Inputs.
	ProjectID        string
	ProjectName      string
	Credentials      trello.Credentials
	UploadedPDF      []byte
	PDFHeadings      []string
	SelectedHeadings []string

	// Produced by the fetch stage.
	BoardID string
	PMData  map[string][]trello.Card

	// Produced by the generate stage.
	GeneratedDocs string
}
