package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"zone/internal/auth"
)

func runUserAdd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommand(strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddThenUpdateUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "auth.txt")

	out, err := runUserAdd(t, "first-pass\n", "--file", path, "--password-stdin", "ann")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(out, "added ann") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runUserAdd(t, "second-pass\n", "--file", path, "--password-stdin", "ann")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.HasPrefix(out, "updated ann") {
		t.Fatalf("unexpected output %q", out)
	}

	users, err := auth.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(users) != 1 || !users.Check("ann", "second-pass") || users.Check("ann", "first-pass") {
		t.Fatalf("expected only the new password to pass")
	}
}

func TestAddUserRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.txt")
	if _, err := runUserAdd(t, "\n", "--file", path, "--password-stdin", "ann"); err == nil {
		t.Fatalf("expected error for empty password")
	}
	if _, err := runUserAdd(t, "pw\n", "--file", path, "--password-stdin", "a:b"); err == nil {
		t.Fatalf("expected error for name with colon")
	}
	if _, err := runUserAdd(t, "pw\n", "--file", path, "--password-stdin"); err == nil {
		t.Fatalf("expected error without a user name")
	}
}

func TestConfirmMismatch(t *testing.T) {
	answers := []string{"one", "two"}
	read := func(string) (string, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	var out bytes.Buffer
	if err := addUser(&out, filepath.Join(t.TempDir(), "auth.txt"), "ann", read, true); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
