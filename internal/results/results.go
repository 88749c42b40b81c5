// Package results defines the per-repository outcome records a run produces.
package results

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusSkipped Status = "SKIPPED"
	StatusError   Status = "ERROR"
)

// Outcome messages. The summary and tests match on these exact strings.
const (
	MessageCloneFailed    = "clone failed"
	MessageAlreadyPresent = "already present"
	MessageNoChanges      = "no changes"
	MessageCopyFailed     = "copy failed"
	MessageStatusFailed   = "status failed"
	MessageCommitFailed   = "commit failed"
	MessagePushFailed     = "push failed"
	MessageWouldApply     = "would apply"
)

// Outcome records the result of processing one repository. It is created
// once, never mutated, and consumed by the summary and report writers in the
// order repositories were processed.
type Outcome struct {
	Repo    string `json:"repo"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Tally counts outcomes by status.
type Tally struct {
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Error   int `json:"error"`
}

func TallyOutcomes(outcomes []Outcome) Tally {
	var t Tally
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			t.Success++
		case StatusSkipped:
			t.Skipped++
		case StatusError:
			t.Error++
		}
	}
	return t
}
