package auto_approval

import (
	"bytes"
	"fmt"

	"github.com/sethvargo/go-githubactions"
	"github.com/yuin/goldmark"
)

func summaryMarkdown(comment string) string {
	return fmt.Sprintf("## :white_check_mark: Auto Approval Status\n\n> %s\n", comment)
}

// Add markdown format support to the job summary
func markdown(value string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(value), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to html: %w", err)
	}
	return buf.String(), nil
}

// writeSummary appends the rendered summary to the job summary. The summary
// is optional: without GITHUB_STEP_SUMMARY it is skipped.
func writeSummary(a *githubactions.Action, value string) error {
	if a.Getenv(envVarStepSummary) == "" {
		debugf("%s is not set, skipping the job summary\n", envVarStepSummary)
		return nil
	}

	html, err := markdown(value)
	if err != nil {
		return err
	}
	return a.AddStepSummary(html)
}
