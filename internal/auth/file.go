package auth

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"zone/internal/storage/fs"
)

func LoadFile(path string) (Users, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open auth file: %w", err)
	}
	users := Users{}
	err = eachLine(data, func(lineNum int, user, hash string) error {
		if _, exists := users[user]; exists {
			return fmt.Errorf("duplicate user %q in auth file", user)
		}
		parsed, err := ParseHash(hash)
		if err != nil {
			return fmt.Errorf("invalid auth line %d: %w", lineNum, err)
		}
		users[user] = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SetUser adds user to the auth file at path, replacing any existing line
// for the same user. The file is created when missing.
func SetUser(path, user, hash string) error {
	user = strings.TrimSpace(user)
	if user == "" || strings.ContainsAny(user, ":\n") {
		return fmt.Errorf("invalid user name %q", user)
	}
	if _, err := ParseHash(hash); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read auth file: %w", err)
	}

	var out bytes.Buffer
	replaced := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		name, _, ok := strings.Cut(strings.TrimSpace(line), ":")
		if ok && strings.TrimSpace(name) == user {
			if replaced {
				continue
			}
			line = user + ":" + hash
			replaced = true
		}
		out.WriteString(line + "\n")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read auth file: %w", err)
	}
	if !replaced {
		out.WriteString(user + ":" + hash + "\n")
	}
	return fs.WriteFileAtomic(path, out.Bytes(), 0o600)
}

func eachLine(data []byte, fn func(lineNum int, user, hash string) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		user, hash, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("invalid auth line %d: expected user:hash", lineNum)
		}
		user, hash = strings.TrimSpace(user), strings.TrimSpace(hash)
		if user == "" || hash == "" {
			return fmt.Errorf("invalid auth line %d: empty user or hash", lineNum)
		}
		if err := fn(lineNum, user, hash); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read auth file: %w", err)
	}
	return nil
}
