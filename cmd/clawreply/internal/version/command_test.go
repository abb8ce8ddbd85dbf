package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	require.NotNil(t, cmd)

	assert.Equal(t, "version", cmd.Use)
	assert.Empty(t, cmd.Aliases)
	assert.Equal(t, "Show version information", cmd.Short)
	assert.False(t, cmd.HasFlags())
	assert.NotNil(t, cmd.Run)
	assert.Nil(t, cmd.RunE)
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	printVersion(&out)

	assert.Contains(t, out.String(), "clawreply dev")
	assert.Contains(t, out.String(), "  Go: go")
}
