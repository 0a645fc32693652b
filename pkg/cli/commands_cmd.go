package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"userctl/internal/report"
)

// CommandEntry represents a single CLI command for introspection output.
type CommandEntry struct {
	Path    string      `json:"path"`
	Group   string      `json:"group"`
	Short   string      `json:"short"`
	Long    string      `json:"long,omitempty"`
	Example string      `json:"example,omitempty"`
	Args    string      `json:"args,omitempty"`
	Flags   []FlagEntry `json:"flags,omitempty"`
}

// FlagEntry represents a single CLI flag for introspection output.
type FlagEntry struct {
	Name     string `json:"name"`
	Short    string `json:"shorthand,omitempty"`
	Type     string `json:"type"`
	Default  string `json:"default,omitempty"`
	Usage    string `json:"usage,omitempty"`
	Required bool   `json:"required,omitempty"`
}

func newCommandsCmd() *cobra.Command {
	var (
		filter string
		group  string
	)

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List all available CLI commands with their flags and descriptions",
		Long: `Introspects the command tree and lists all commands with their paths,
descriptions, flags, and examples. Works offline (no API calls needed).

This is designed for AI agents to discover available CLI capabilities in a single call.`,
		Example: `  # List all commands
  userctl commands

  # Search for deletion-related commands
  userctl commands --filter delete

  # List only config commands as JSON
  userctl commands --group config --output json

  # Get full command metadata for agent consumption
  userctl commands --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var entries []CommandEntry
			for _, e := range collectCommands(cmd.Root(), "") {
				if group != "" && e.Group != group {
					continue
				}
				if filter != "" && !entryMatches(e, filter) {
					continue
				}
				entries = append(entries, e)
			}

			if getOutputFormat(cmd) == "json" {
				return report.PrintJSON(os.Stdout, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Path, e.Short})
			}
			report.PrintTable(os.Stdout, []string{"path", "description"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Substring search across command names and descriptions")
	cmd.Flags().StringVar(&group, "group", "", "Filter by command group (e.g., config)")

	return cmd
}

// entryMatches reports whether query appears in the entry's path or
// description text, case-insensitively.
func entryMatches(e CommandEntry, query string) bool {
	haystack := strings.ToLower(e.Path + " " + e.Short + " " + e.Long)
	return strings.Contains(haystack, strings.ToLower(query))
}

// collectCommands walks the command tree depth-first and returns one entry
// per runnable leaf. Hidden commands and cobra's built-in help and
// completion commands are left out.
func collectCommands(cmd *cobra.Command, prefix string) []CommandEntry {
	var entries []CommandEntry
	for _, child := range cmd.Commands() {
		if child.Hidden || child.Name() == "help" || child.Name() == "completion" {
			continue
		}

		path := child.Name()
		if prefix != "" {
			path = prefix + " " + child.Name()
		}
		if child.HasSubCommands() {
			entries = append(entries, collectCommands(child, path)...)
			continue
		}

		// The group is the top-level command name; the args hint is
		// whatever follows the command name in its Use line.
		group, _, _ := strings.Cut(path, " ")
		_, args, _ := strings.Cut(strings.TrimSpace(child.Use), " ")

		entries = append(entries, CommandEntry{
			Path:    path,
			Group:   group,
			Short:   child.Short,
			Long:    child.Long,
			Example: child.Example,
			Args:    args,
			Flags:   flagEntries(child),
		})
	}
	return entries
}

// flagEntries gathers the visible flags declared on a leaf command.
func flagEntries(cmd *cobra.Command) []FlagEntry {
	var flags []FlagEntry
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		required := false
		if ann, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; ok && len(ann) > 0 && ann[0] == "true" {
			required = true
		}
		flags = append(flags, FlagEntry{
			Name:     f.Name,
			Short:    f.Shorthand,
			Type:     f.Value.Type(),
			Default:  f.DefValue,
			Usage:    f.Usage,
			Required: required,
		})
	})
	return flags
}
