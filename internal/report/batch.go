package report

import "time"

// BatchFailure records an input that could not be analyzed.
type BatchFailure struct {
	Source string `json:"source" yaml:"source"`
	Error  string `json:"error" yaml:"error"`
}

// Batch aggregates the reports of a multi-input analysis run.
type Batch struct {
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Succeeded int               `json:"succeeded" yaml:"succeeded"`
	Failed    int               `json:"failed" yaml:"failed"`
	Runs      []*AnalysisReport `json:"runs" yaml:"runs"`
	Failures  []BatchFailure    `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// NewBatch assembles a batch document from per-input reports and failures.
// Runs keep the order in which the inputs were given.
func NewBatch(runs []*AnalysisReport, failures []BatchFailure) *Batch {
	return &Batch{
		CreatedAt: time.Now().UTC(),
		Succeeded: len(runs),
		Failed:    len(failures),
		Runs:      runs,
		Failures:  failures,
	}
}
