package evaluation

import (
	"context"
	"fmt"
	"strings"

	"bayassist/models"
	"bayassist/utils"

	"go.uber.org/zap"
)

// Run evaluates every case and aggregates an accuracy report. Cases that fail
// outright are recorded as mismatches with the failure as rationale, so one
// bad case never aborts a long offline run.
func (h *Harness) Run(ctx context.Context, cases []TestCase) (*models.EvaluationReport, error) {
	if h.Assist == nil || h.Judge == nil {
		return nil, fmt.Errorf("harness requires an assist service and a judge")
	}

	report := &models.EvaluationReport{}
	for _, tc := range cases {
		rec := h.evaluate(ctx, tc)
		report.Records = append(report.Records, rec)
		report.Total++
		if rec.Match {
			report.Matched++
		}
	}
	if report.Total > 0 {
		report.Accuracy = float64(report.Matched) / float64(report.Total)
	}
	return report, nil
}

func (h *Harness) evaluate(ctx context.Context, tc TestCase) models.EvaluationRecord {
	logger := utils.GetLogger()

	expected, rationale, err := h.Judge.ClassifyAction(ctx, h.Vocabulary, Transcript(tc))
	if err != nil {
		logger.Warn("judge classification failed", zap.String("case", tc.ID), zap.Error(err))
		return models.EvaluationRecord{
			TestCaseID:     tc.ID,
			ExpectedAction: "",
			ActualAction:   "",
			Match:          false,
			Rationale:      "judge failed: " + err.Error(),
		}
	}

	// Dry run is mandatory here: the harness must never touch backend state.
	resp, err := h.Assist.Suggest(ctx, models.AssistRequest{
		ConversationID:  tc.ConversationID,
		CustomerMessage: tc.CustomerMessage,
		History:         tc.History,
		DryRun:          true,
	})
	if err != nil {
		return models.EvaluationRecord{
			TestCaseID:     tc.ID,
			ExpectedAction: expected,
			Match:          false,
			Rationale:      "engine failed: " + err.Error(),
		}
	}

	actual := resp.FunctionCalled
	if actual == "" {
		actual = ConversationalAction
	}

	return models.EvaluationRecord{
		TestCaseID:     tc.ID,
		ExpectedAction: expected,
		ActualAction:   actual,
		Match:          strings.EqualFold(expected, actual),
		Rationale:      rationale,
	}
}

// Transcript renders a case as a plain-text conversation for the judge.
func Transcript(tc TestCase) string {
	var sb strings.Builder
	for _, m := range tc.History {
		fmt.Fprintf(&sb, "%s: %s\n", m.SenderType, m.Text)
	}
	fmt.Fprintf(&sb, "customer: %s\n", tc.CustomerMessage)
	for _, m := range tc.StaffFollowup {
		fmt.Fprintf(&sb, "%s: %s\n", m.SenderType, m.Text)
	}
	return sb.String()
}
