package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAssignee(t *testing.T) {
	abc := []string{"A", "B", "C"}

	tests := []struct {
		name      string
		assignees []string
		previous  string
		want      []string
	}{
		{"next after middle", abc, "B", []string{"C"}},
		{"next after first", abc, "A", []string{"B"}},
		{"wraps after last", abc, "C", []string{"A"}},
		{"no previous assignee", abc, "", []string{"A"}},
		{"previous not in list", abc, "zed", []string{"A"}},
		{"single entry", []string{"alice"}, "alice", []string{"alice"}},
		{"empty list", nil, "A", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextAssignee(tt.assignees, tt.previous))
		})
	}
}

func TestNextAssignee_DoesNotModifyInput(t *testing.T) {
	assignees := []string{"alice", "bob"}

	_ = NextAssignee(assignees, "alice")

	assert.Equal(t, []string{"alice", "bob"}, assignees)
}

func TestPreviousIssue_FirstAssignee(t *testing.T) {
	var nilIssue *PreviousIssue
	assert.Equal(t, "", nilIssue.FirstAssignee())
	assert.Equal(t, "", (&PreviousIssue{Number: 1}).FirstAssignee())
	assert.Equal(t, "alice", (&PreviousIssue{Assignees: []string{"alice", "bob"}}).FirstAssignee())
}
