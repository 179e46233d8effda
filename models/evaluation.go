package models

// EvaluationRecord is one offline comparison of the engine's suggested action
// against the action staff actually took. Harness-only; never written to the
// production store.
type EvaluationRecord struct {
	TestCaseID     string `json:"testCaseId"`
	ExpectedAction string `json:"expectedAction"`
	ActualAction   string `json:"actualAction"`
	Match          bool   `json:"match"`
	Rationale      string `json:"rationale"`
}

// EvaluationReport aggregates a harness run.
type EvaluationReport struct {
	Total    int                `json:"total"`
	Matched  int                `json:"matched"`
	Accuracy float64            `json:"accuracy"`
	Records  []EvaluationRecord `json:"records"`
}
