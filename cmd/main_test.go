package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_setupLoggerUnknownEnv(t *testing.T) {
	reader, writer, err := os.Pipe()
	require.NoError(t, err)

	stdout := os.Stdout
	os.Stdout = writer
	t.Cleanup(func() { os.Stdout = stdout })

	logger := setupLogger("staging")
	require.NoError(t, writer.Close())

	out, err := io.ReadAll(reader)
	require.NoError(t, err)

	assert.NotNil(t, logger)
	assert.Contains(t, string(out), "The env parameter was not specified or was invalid.")
	assert.NotContains(t, string(out), `\t`)
}
