// Package actions publishes run results using the GitHub Actions runner protocol:
// step outputs ($GITHUB_OUTPUT), the step summary ($GITHUB_STEP_SUMMARY) and
// workflow commands on stdout.
package actions

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/runoshun/issue-bot/internal/domain"
)

// Ensure Writer implements domain.OutputWriter.
var _ domain.OutputWriter = (*Writer)(nil)

// Environment variables set by the Actions runner.
const (
	EnvOutput      = "GITHUB_OUTPUT"
	EnvStepSummary = "GITHUB_STEP_SUMMARY"
	EnvActions     = "GITHUB_ACTIONS"
)

// Writer writes outputs to the runner's files.
// Outside a runner (no output file) outputs are printed to stdout as name=value.
// Fields are ordered to minimize memory padding.
type Writer struct {
	stdout      io.Writer
	outputPath  string
	summaryPath string
	annotate    bool
}

// NewWriter creates a Writer with explicit paths.
func NewWriter(stdout io.Writer, outputPath, summaryPath string, annotate bool) *Writer {
	return &Writer{
		stdout:      stdout,
		outputPath:  outputPath,
		summaryPath: summaryPath,
		annotate:    annotate,
	}
}

// NewWriterFromEnv creates a Writer configured from the runner environment.
func NewWriterFromEnv(stdout io.Writer) *Writer {
	return NewWriter(stdout, os.Getenv(EnvOutput), os.Getenv(EnvStepSummary), os.Getenv(EnvActions) == "true")
}

// SetOutput records a step output.
// Multi-line values use the heredoc form with a random delimiter.
func (w *Writer) SetOutput(name, value string) error {
	if w.outputPath == "" {
		_, err := fmt.Fprintf(w.stdout, "%s=%s\n", name, value)
		return err
	}

	entry := fmt.Sprintf("%s=%s\n", name, value)
	if strings.ContainsAny(value, "\r\n") {
		delimiter, err := newDelimiter()
		if err != nil {
			return err
		}
		entry = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	}
	return appendFile(w.outputPath, entry)
}

// AppendSummary appends markdown to the step summary. No-op outside a runner.
func (w *Writer) AppendSummary(markdown string) error {
	if w.summaryPath == "" {
		return nil
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	return appendFile(w.summaryPath, markdown)
}

// Fail emits an error annotation for the run when running inside Actions.
func (w *Writer) Fail(err error) {
	if !w.annotate || err == nil {
		return
	}
	_, _ = fmt.Fprintf(w.stdout, "::error::%s\n", escapeData(err.Error()))
}

// escapeData escapes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func newDelimiter() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generate output delimiter")
	}
	return "ghadelimiter_" + hex.EncodeToString(b), nil
}

func appendFile(path, content string) error {
	// G302: runner files are created by the runner and only appended to
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // path comes from the runner
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}
