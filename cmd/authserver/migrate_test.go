// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Conquest Team

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conquestteam/mmorpg-auth-server/pkg/errutil"
)

func TestMigrateUp_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate", "up"})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestMigrateDown_RequiresConfirmation(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/game")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate", "down"})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIRMATION_REQUIRED")
}

func TestMigrateForce_RejectsBadVersions(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{name: "non-numeric", arg: "abc"},
		{name: "negative", arg: "-1"},
		{name: "empty", arg: ""},
		{name: "float", arg: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/game")

			cmd := NewRootCmd()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs([]string{"migrate", "force", tt.arg})

			err := cmd.Execute()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "INVALID_VERSION")
		})
	}
}

func TestMigrateForce_RequiresArgument(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"migrate", "force"})

	assert.Error(t, cmd.Execute())
}
