package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_PrintsDocumentCount(t *testing.T) {
	knowledge, _, cleanup := setupTestServices()
	defer cleanup()
	knowledge.count = 7

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Curio Status")
	assert.Contains(t, buf.String(), "Documents: 7")
}

func TestStatusCmd_CountError(t *testing.T) {
	knowledge, _, cleanup := setupTestServices()
	defer cleanup()
	knowledge.err = errors.New("store offline")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "counting documents")
}
