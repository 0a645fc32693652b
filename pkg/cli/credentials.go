package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"userctl/internal/ece"
)

// Overridable in tests.
var (
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	readPassword = func() (string, error) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
)

// ensureClientCredentials fills in connection settings still missing after
// flag, environment, and profile resolution, prompting on the terminal.
// Prompts go to stderr so piped stdout stays clean. An API key is a complete
// credential on its own; otherwise username and password are both needed.
func ensureClientCredentials(c *ece.Client) error {
	if c.BaseURL == "" {
		host, err := promptLine("hostname", "Enter hostname (e.g., cloud.elastic.co): ")
		if err != nil {
			return err
		}
		if host == "" {
			return fmt.Errorf("hostname is required")
		}
		c.BaseURL = ece.NormalizeHost(host)
	}

	if c.APIKey != "" {
		return nil
	}

	if c.Username == "" {
		username, err := promptLine("username", "Enter API username: ")
		if err != nil {
			return err
		}
		if username == "" {
			return fmt.Errorf("username is required when no API key is set")
		}
		c.Username = username
	}
	if c.Password == "" {
		if !stdinIsTerminal() {
			return errNonInteractive("password")
		}
		fmt.Fprint(os.Stderr, "Enter API password: ")
		password, err := readPassword()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		c.Password = password
	}
	return nil
}

func promptLine(what, prompt string) (string, error) {
	if !stdinIsTerminal() {
		return "", errNonInteractive(what)
	}
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func errNonInteractive(what string) error {
	return fmt.Errorf("%s not provided and stdin is not a terminal: set flags, ECE_* environment variables, or a profile", what)
}
