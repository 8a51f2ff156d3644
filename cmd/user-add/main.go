// Command user-add sets a user's password in the zone auth file.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zone/internal/auth"
	"zone/internal/config"
)

func main() {
	if err := newCommand(os.Stdin, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "user-add:", err)
		os.Exit(1)
	}
}

type passwordSource func(prompt string) (string, error)

func newCommand(stdin io.Reader, stderr io.Writer) *cobra.Command {
	var authFile string
	var fromStdin bool
	cmd := &cobra.Command{
		Use:   "user-add <username>",
		Short: "Add a user to the auth file or change their password",
		Long: `user-add writes an argon2id hash for the user into the auth file named
by auth_file / ZONE_AUTH_FILE, or <data dir>/auth.txt when neither is set.
The password is read from the terminal twice, or once from stdin with
--password-stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := authFile
			if path == "" {
				var err error
				if path, err = defaultAuthFile(); err != nil {
					return err
				}
			}
			read := terminalPassword(stderr)
			if fromStdin {
				read = stdinPassword(stdin)
			}
			return addUser(stderr, path, args[0], read, !fromStdin)
		},
	}
	cmd.SetErr(stderr)
	cmd.Flags().StringVar(&authFile, "file", "", "auth file to update")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func defaultAuthFile() (string, error) {
	cfg, err := config.Load("")
	if err != nil {
		return "", err
	}
	if cfg.AuthFile != "" {
		return cfg.AuthFile, nil
	}
	return filepath.Join(cfg.DataDir, "auth.txt"), nil
}

func addUser(out io.Writer, path, user string, read passwordSource, confirm bool) error {
	user = strings.TrimSpace(user)
	if user == "" || strings.ContainsAny(user, ":\n") {
		return fmt.Errorf("invalid user name %q", user)
	}

	password, err := read("Password for " + user + ": ")
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password must not be empty")
	}
	if confirm {
		again, err := read("Repeat password: ")
		if err != nil {
			return err
		}
		if again != password {
			return errors.New("passwords do not match")
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create auth dir: %w", err)
	}
	replaced := hasUser(path, user)
	if err := auth.SetUser(path, user, hash); err != nil {
		return err
	}
	verb := "added"
	if replaced {
		verb = "updated"
	}
	fmt.Fprintf(out, "%s %s in %s\n", verb, user, path)
	return nil
}

// hasUser reports whether path already lists user. A missing or unreadable
// file counts as no.
func hasUser(path, user string) bool {
	users, err := auth.LoadFile(path)
	if err != nil {
		return false
	}
	_, ok := users[user]
	return ok
}

func terminalPassword(prompts io.Writer) passwordSource {
	return func(prompt string) (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", errors.New("stdin is not a terminal, use --password-stdin")
		}
		fmt.Fprint(prompts, prompt)
		pass, err := term.ReadPassword(fd)
		fmt.Fprintln(prompts)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(string(pass)), nil
	}
}

func stdinPassword(r io.Reader) passwordSource {
	return func(string) (string, error) {
		line, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}
}
