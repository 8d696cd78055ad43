package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/issue-bot/internal/domain"
)

func TestRun_Version(t *testing.T) {
	err := run(context.Background(), []string{"--version"})

	assert.NoError(t, err)
}

func TestRun_InvalidInputs(t *testing.T) {
	t.Setenv("INPUT_TITLE", "")

	err := run(context.Background(), []string{"--pinned"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyTitle))
}

func TestReport_InsideActions(t *testing.T) {
	// Setup
	t.Setenv("GITHUB_ACTIONS", "true")
	var stdout, stderr bytes.Buffer

	// Execute
	report(errors.New("create issue: 100%\nbroken"), &stdout, &stderr)

	// Assert
	assert.Equal(t, "::error::create issue: 100%25%0Abroken\n", stdout.String())
	assert.Contains(t, stderr.String(), "run failed")
}

func TestReport_OutsideActions(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "")
	var stdout, stderr bytes.Buffer

	report(errors.New("boom"), &stdout, &stderr)

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "boom")
}
