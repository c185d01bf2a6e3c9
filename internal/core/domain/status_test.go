package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlurmStateNormalize(t *testing.T) {
	assert.Equal(t, SlurmState("CANCELLED"), SlurmState("CANCELLED by 1234").Normalize())
	assert.Equal(t, SlurmState("COMPLETED"), SlurmState("COMPLETED").Normalize())
	assert.Equal(t, SlurmState(""), SlurmState("").Normalize())
}

func TestSlurmStateClasses(t *testing.T) {
	cases := []struct {
		state   SlurmState
		success bool
		failure bool
		live    bool
	}{
		{"COMPLETED", true, false, false},
		{"FAILED", false, true, false},
		{"CANCELLED by 99", false, true, false},
		{"TIMEOUT", false, true, false},
		{"OUT_OF_MEMORY", false, true, false},
		{"NODE_FAIL", false, true, false},
		{"PENDING", false, false, true},
		{"RUNNING", false, false, true},
		{"COMPLETING", false, false, true},
		{"REQUEUED", false, false, true},
		{"RESIZING", false, false, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.success, tc.state.IsSuccessTerminal(), "success for %s", tc.state)
		assert.Equal(t, tc.failure, tc.state.IsFailureTerminal(), "failure for %s", tc.state)
		assert.Equal(t, tc.live, tc.state.IsLive(), "live for %s", tc.state)
	}
}

func TestLiveStatusMapping(t *testing.T) {
	assert.Equal(t, StatusPending, SlurmState("PENDING").LiveStatus())
	assert.Equal(t, StatusPending, SlurmState("REQUEUED").LiveStatus())
	assert.Equal(t, StatusRunning, SlurmState("RUNNING").LiveStatus())
	assert.Equal(t, StatusRunning, SlurmState("COMPLETING").LiveStatus())
	assert.Equal(t, StatusUnknown, SlurmState("COMPLETED").LiveStatus())
}
