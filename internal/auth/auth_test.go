package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	parsed, err := ParseHash(hash)
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if !parsed.Verify("secret-password") {
		t.Fatal("expected password to verify")
	}
	if parsed.Verify("wrong-password") {
		t.Fatal("expected password to fail verification")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestParseHashRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1,t=1,p=1$c2FsdA$c3Vt",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$c3Vt",
		"$argon2id$v=19$m=1,t=1$c2FsdA$c3Vt",
		"$argon2id$v=19$m=1,t=1,p=300$c2FsdA$c3Vt",
		"$argon2id$v=19$m=1,t=1,p=1$!!$c3Vt",
	} {
		if _, err := ParseHash(in); !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("%q: expected ErrInvalidHash, got %v", in, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.txt")
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	content := "# comment\n\nalice:" + hash + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write auth file: %v", err)
	}

	users, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !users.Check("alice", "secret") {
		t.Fatal("expected alice to authenticate")
	}
	if users.Check("alice", "nope") || users.Check("bob", "secret") {
		t.Fatal("unexpected successful check")
	}
}

func TestLoadFileDuplicateUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.txt")
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	content := "alice:" + hash + "\nalice:" + hash + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write auth file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected duplicate user error")
	}
}

func TestSetUserReplacesLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.txt")
	first, _ := HashPassword("one")
	second, _ := HashPassword("two")
	other, _ := HashPassword("bob")

	if err := SetUser(path, "alice", first); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	if err := SetUser(path, "bob", other); err != nil {
		t.Fatalf("SetUser bob: %v", err)
	}
	if err := SetUser(path, "alice", second); err != nil {
		t.Fatalf("SetUser replace: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(data), "alice:"); n != 1 {
		t.Fatalf("expected one alice line, got %d:\n%s", n, data)
	}
	users, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !users.Check("alice", "two") || users.Check("alice", "one") || !users.Check("bob", "bob") {
		t.Fatal("unexpected credentials after replace")
	}
	if err := SetUser(path, "bad:name", second); err == nil {
		t.Fatal("expected error for user with colon")
	}
}

func TestStatic(t *testing.T) {
	s := Static{User: "me", Password: "pw"}
	if !s.Check("me", "pw") || s.Check("me", "PW") || s.Check("you", "pw") {
		t.Fatal("unexpected static check result")
	}
}
