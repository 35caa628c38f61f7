// ABOUTME: Tests for root CLI command and global flags
// ABOUTME: Verifies command structure, subcommands, and flag handling

package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "postforge" {
		t.Errorf("Use = %q, want %q", cmd.Use, "postforge")
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"serve", "mcp", "version"} {
		t.Run(name, func(t *testing.T) {
			for _, sub := range cmd.Commands() {
				if sub.Name() == name {
					return
				}
			}
			t.Errorf("subcommand %q not registered", name)
		})
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	cmd := NewRootCmd()

	flag := cmd.PersistentFlags().Lookup("verbose")
	if flag == nil {
		t.Fatal("--verbose flag not found")
	}
	if flag.Shorthand != "v" {
		t.Errorf("verbose shorthand = %q, want v", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("verbose default = %q, want false", flag.DefValue)
	}
}

func TestVersionCmd_Output(t *testing.T) {
	SetVersion("1.2.3", "abcdef0", "2026-01-01")

	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	got := out.String()
	if !strings.Contains(got, "1.2.3") {
		t.Errorf("version output %q missing version", got)
	}
	if !strings.Contains(got, "abcdef0") {
		t.Errorf("version output %q missing commit", got)
	}
}
