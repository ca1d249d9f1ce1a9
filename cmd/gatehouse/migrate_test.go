// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestMigrateCommand_Properties(t *testing.T) {
	cmd := NewMigrateCmd()

	if cmd.Use != "migrate" {
		t.Errorf("Use = %q, want %q", cmd.Use, "migrate")
	}

	subcommands := []string{"down", "version"}
	for _, name := range subcommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Missing %q subcommand", name)
		}
	}
}

func TestMigrateCommand_NoDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	for _, args := range [][]string{
		{"migrate"},
		{"migrate", "down"},
		{"migrate", "version"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))
			cmd.SetArgs(args)

			err := cmd.Execute()
			if err == nil {
				t.Fatal("Expected error when DATABASE_URL is not set")
			}
			if !strings.Contains(err.Error(), "DATABASE_URL") {
				t.Errorf("Error should mention DATABASE_URL, got: %v", err)
			}
		})
	}
}

func TestSweepCommand_NoDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"sweep"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("Expected error when DATABASE_URL is not set")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("Error should mention DATABASE_URL, got: %v", err)
	}
}
