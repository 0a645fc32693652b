package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readTargetsFromStdin collects usernames from piped stdin, one per line.
// Blank lines and #-comments are skipped, and a leading "- " marker (the
// discover scripting list) is stripped. An interactive stdin yields nothing.
func readTargetsFromStdin() ([]string, error) {
	if stdinIsTerminal() {
		return nil, nil
	}
	var targets []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if line == "" {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return targets, nil
}
