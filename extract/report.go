package extract

import "github.com/tsawler/docxtract/artifact"

// State is the terminal state of one document.
type State int

const (
	// Unprocessed documents have not been looked at.
	Unprocessed State = iota
	// Inspected documents have been gated but not yet written.
	Inspected
	// CopiedVerbatim documents were copied byte for byte.
	CopiedVerbatim
	// Extracted documents were rewritten with placeholders.
	Extracted
)

func (s State) String() string {
	switch s {
	case Inspected:
		return "inspected"
	case CopiedVerbatim:
		return "copied-verbatim"
	case Extracted:
		return "extracted"
	default:
		return "unprocessed"
	}
}

// Status is the result of handling one object.
type Status int

const (
	// Substituted objects were written and replaced by a placeholder.
	Substituted Status = iota
	// Unanchored objects were written but had no live paragraph to carry
	// the placeholder, so the tree is unchanged for them.
	Unanchored
	// Skipped shapes are not embedded pictures.
	Skipped
	// Failed objects could not be extracted; Outcome.Err says why.
	Failed
)

func (s Status) String() string {
	switch s {
	case Substituted:
		return "substituted"
	case Unanchored:
		return "unanchored"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome records what happened to one image or math object.
type Outcome struct {
	Kind   artifact.Kind
	Seq    int    // 1-based, per kind
	Path   string // side file, empty unless written
	Status Status
	Reason string
	Err    error
}

// Written reports whether the side file exists.
func (o Outcome) Written() bool {
	return o.Status == Substituted || o.Status == Unanchored
}

// Report is the per-document result of Extract.
type Report struct {
	Source      string
	Destination string
	Title       string // dc:title of the source, if any
	State       State
	HasMath     bool
	HasImages   bool
	Outcomes    []Outcome
}

// Substituted counts objects of kind k replaced by a placeholder.
func (r *Report) Substituted(k artifact.Kind) int {
	return r.count(func(o Outcome) bool { return o.Kind == k && o.Status == Substituted })
}

// Written counts side files of kind k.
func (r *Report) Written(k artifact.Kind) int {
	return r.count(func(o Outcome) bool { return o.Kind == k && o.Written() })
}

// Failed counts objects of any kind that failed.
func (r *Report) Failed() int {
	return r.count(func(o Outcome) bool { return o.Status == Failed })
}

func (r *Report) count(pred func(Outcome) bool) int {
	n := 0
	for _, o := range r.Outcomes {
		if pred(o) {
			n++
		}
	}
	return n
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}
