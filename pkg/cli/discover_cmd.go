package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"userctl/internal/ece"
	"userctl/internal/provenance"
	"userctl/internal/report"
)

func newDiscoverCmd(client *ece.Client) *cobra.Command {
	var (
		creator         string
		pipe            bool
		includeDisabled bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List users created by an account and its descendants",
		Long: `Fetches every user from the ECE admin API, walks the created-by chain
starting from the creator account (users it created, users those users
created, and so on), adds the platform service accounts, and reports the
result. The creator itself is never included.`,
		Example: `  # Report everything the readonly account created
  userctl discover

  # Same walk for a different creator, including disabled users
  userctl discover --creator admin --include-disabled

  # Feed the result into deletion
  userctl discover --pipe | userctl delete --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ensureClientCredentials(client); err != nil {
				return err
			}

			jsonMode := getOutputFormat(cmd) == "json"

			// In machine modes stdout carries only the payload; progress
			// goes to stderr.
			info := io.Writer(os.Stdout)
			if pipe || jsonMode {
				info = os.Stderr
			}

			fmt.Fprintf(info, "\nConnecting to %s...\n", client.BaseURL)
			fmt.Fprintln(info, "Fetching all users...")
			users, err := client.ListUsers(includeDisabled)
			if err != nil {
				return fmt.Errorf("fetch users: %w", err)
			}
			fmt.Fprintf(info, "Found %d total users\n", len(users))

			fmt.Fprintf(info, "\nFinding users created by %q (recursively)...\n", creator)
			dir := provenance.NewDirectory(users)

			fmt.Fprintln(info, "\nFinding service account users")
			serviceAccounts, err := client.ListServiceAccounts()
			if err != nil {
				return fmt.Errorf("fetch service accounts: %w", err)
			}

			usernames := dir.Closure(creator, serviceAccounts)
			disc := report.NewDiscovery(creator, usernames, dir)

			if disc.Empty() {
				fmt.Fprintf(info, "\nNo users found created by %q or their descendants.\n", creator)
				if jsonMode && !pipe {
					return report.PrintJSON(os.Stdout, disc)
				}
				return nil
			}

			switch {
			case pipe:
				disc.WritePipe(os.Stdout)
			case jsonMode:
				return report.PrintJSON(os.Stdout, disc)
			default:
				disc.WriteHuman(os.Stdout)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "readonly", "Account whose created users to discover")
	cmd.Flags().BoolVar(&pipe, "pipe", false, "Print bare usernames only, for piping into other commands")
	cmd.Flags().BoolVar(&includeDisabled, "include-disabled", false, "Include disabled users in the listing")

	return cmd
}
