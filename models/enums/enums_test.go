package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmissionStatus(t *testing.T) {
	st, err := ParseSubmissionStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, SubmissionApproved, st)
	assert.True(t, st.IsTerminal())
	assert.False(t, SubmissionPending.IsTerminal())

	_, err = ParseSubmissionStatus("APPROVED")
	assert.Error(t, err)
	_, err = ParseSubmissionStatus("")
	assert.Error(t, err)
}

func TestParseServiceOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "contacted", "completed"} {
		st, err := ParseServiceOrderStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, st.String())
	}
	_, err := ParseServiceOrderStatus("cancelled")
	assert.Error(t, err)
}
