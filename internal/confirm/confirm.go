// Package confirm implements the interactive gate in front of destructive
// batch operations.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Token is the literal an operator must type to approve a deletion.
const Token = "DELETE"

// previewLimit caps how many targets the warning lists before eliding.
const previewLimit = 10

var rule = strings.Repeat("=", 80)

// Test seams. When stdin is piped the prompt answer comes from the
// controlling terminal so that `discover --pipe | delete` stays confirmable.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	openTTY         = func() (io.ReadCloser, error) { return os.Open("/dev/tty") }
)

// Gate decides whether a destructive batch may proceed.
type Gate struct {
	// DryRun proceeds without a prompt; nothing will be deleted anyway.
	DryRun bool
	// SkipPrompt proceeds without a prompt. Set by --no-confirm.
	SkipPrompt bool
	// Out receives the warning banner and prompts. Defaults to os.Stdout.
	Out io.Writer
}

// Confirm reports whether the batch may proceed. Without an interactive
// answer source it fails closed: no terminal means no deletion.
func (g *Gate) Confirm(targets []string) bool {
	out := g.out()

	if g.DryRun {
		fmt.Fprintf(out, "\n%s\n", rule)
		fmt.Fprintln(out, "DRY RUN - No users will be deleted")
		fmt.Fprintf(out, "%s\n\n", rule)
		return true
	}
	if g.SkipPrompt {
		return true
	}

	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintf(out, "WARNING: You are about to DELETE %d user(s)!\n", len(targets))
	fmt.Fprintf(out, "%s\n\n", rule)
	fmt.Fprintln(out, "Users to be deleted:")
	for i, target := range targets {
		if i == previewLimit {
			fmt.Fprintf(out, "  ... and %d more\n", len(targets)-previewLimit)
			break
		}
		fmt.Fprintf(out, "  - %s\n", target)
	}
	fmt.Fprintf(out, "\n%s\n", rule)

	answer, err := g.readAnswer(out)
	if err != nil {
		fmt.Fprintln(out, "\nError: Cannot read confirmation from terminal when using piped input.")
		fmt.Fprintln(out, "Use --no-confirm to skip confirmation, or pass usernames as arguments instead of piping.")
		return false
	}
	return answer == Token
}

// readAnswer reads one line from the interactive source: stdin when it is a
// terminal, the controlling terminal otherwise.
func (g *Gate) readAnswer(out io.Writer) (string, error) {
	prompt := fmt.Sprintf("Are you sure you want to proceed? Type %q to confirm: ", Token)

	if stdinIsTerminal() {
		fmt.Fprint(out, prompt)
		return readLine(os.Stdin)
	}

	tty, err := openTTY()
	if err != nil {
		return "", err
	}
	defer func() { _ = tty.Close() }()

	fmt.Fprint(out, prompt)
	return readLine(tty)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (g *Gate) out() io.Writer {
	if g.Out != nil {
		return g.Out
	}
	return os.Stdout
}
