package auto_approval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const summaryOutput = "<h2>:white_check_mark: Auto Approval Status</h2>\n<blockquote>\n<p>Auto-Approved by GitHub Action for environment(s) - prod. Reviewer: alice</p>\n</blockquote>"

func summaryEnv(summaryFile string) func(string) string {
	return func(key string) string {
		if key == envVarStepSummary {
			return summaryFile
		}
		return ""
	}
}

func Test_markdown(t *testing.T) {
	html, err := markdown(summaryMarkdown("Auto-Approved by GitHub Action for environment(s) - prod. Reviewer: alice"))
	require.NoError(t, err)
	require.Equal(t, summaryOutput+"\n", html)
}

func Test_writeSummary(t *testing.T) {
	t.Run("appends to existing summary", func(t *testing.T) {
		summaryFile := filepath.Join(t.TempDir(), "summary.md")
		require.NoError(t, os.WriteFile(summaryFile, []byte("<p>previous step</p>\n"), 0644))
		a := newAction(capturingStdOut(new([]string)), summaryEnv(summaryFile))

		err := writeSummary(a, summaryMarkdown("Auto-Approved by GitHub Action for environment(s) - prod. Reviewer: alice"))

		require.NoError(t, err)
		out, err := os.ReadFile(summaryFile)
		require.NoError(t, err)
		require.Equal(t, "<p>previous step</p>\n"+summaryOutput, strings.TrimRight(string(out), "\n"))
	})

	t.Run("no summary file", func(t *testing.T) {
		a := newAction(capturingStdOut(new([]string)), summaryEnv(""))
		require.NoError(t, writeSummary(a, summaryMarkdown("ignored")))
	})

	t.Run("unwritable summary file", func(t *testing.T) {
		summaryFile := filepath.Join(t.TempDir(), "missing", "summary.md")
		a := newAction(capturingStdOut(new([]string)), summaryEnv(summaryFile))

		require.Error(t, writeSummary(a, summaryMarkdown("ignored")))
	})
}
