package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curio-labs/curio-cli/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "Where is the cat?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "The cat is on the mat.")
	assert.Contains(t, buf.String(), "Sources:")
	assert.Contains(t, buf.String(), "pets.txt")
}

func TestAskCmd_PassesRoleFlag(t *testing.T) {
	_, answers, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--role", "support", "Where is the cat?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askRole = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "support", answers.lastRole)
}

func TestAskCmd_UnknownRoleListsAvailable(t *testing.T) {
	_, answers, cleanup := setupTestServices()
	defer cleanup()
	answers.err = domain.ErrUnknownRole

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "--role", "pirate", "Where is the cat?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askRole = ""
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownRole)
	assert.Contains(t, err.Error(), "support")
	assert.Contains(t, err.Error(), "technical")
}

func TestAskCmd_ServiceError(t *testing.T) {
	_, answers, cleanup := setupTestServices()
	defer cleanup()
	answers.err = errors.New("model offline")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "Where is the cat?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "answer failed")
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	answerService = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "Where is the cat?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "answer service not configured")
}

func TestRolesCmd_ListsRoles(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"roles"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	for _, role := range []string{"default", "support", "sales", "technical", "summary"} {
		assert.Contains(t, buf.String(), role)
	}
}
