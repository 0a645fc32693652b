package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"userctl/internal/audit"
	"userctl/internal/batch"
	"userctl/internal/confirm"
	"userctl/internal/ece"
	"userctl/internal/report"
)

func newDeleteCmd(client *ece.Client) *cobra.Command {
	var (
		dryRun      bool
		noConfirm   bool
		concurrency int
		auditPath   string
	)

	cmd := &cobra.Command{
		Use:   "delete [username ...]",
		Short: "Delete users with confirmation, dry-run, and outcome reporting",
		Long: `Deletes the named users through the ECE admin API. Targets come from
positional arguments, or from stdin when piped (one username per line;
blank lines, #-comments, and leading "- " markers are ignored).

Every run asks for confirmation before touching anything unless --no-confirm
or --dry-run is set. Individual failures are reported and do not abort the
rest of the batch.`,
		Example: `  # Dry-run everything discover finds
  userctl discover --pipe | userctl delete --dry-run

  # Delete two users without piping
  userctl delete alice bob

  # Keep a JSONL audit trail of the run
  userctl delete alice --audit-log deletions.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := args
			if len(targets) == 0 {
				stdinTargets, err := readTargetsFromStdin()
				if err != nil {
					return err
				}
				targets = stdinTargets
			}
			if len(targets) == 0 {
				return errors.New("no usernames provided: pass usernames as arguments or pipe them via stdin")
			}

			if err := ensureClientCredentials(client); err != nil {
				return err
			}

			jsonMode := getOutputFormat(cmd) == "json"

			// In JSON mode stdout carries only the final report; banners,
			// prompts, and progress go to stderr.
			info := io.Writer(os.Stdout)
			if jsonMode {
				info = os.Stderr
			}

			gate := &confirm.Gate{DryRun: dryRun, SkipPrompt: noConfirm, Out: info}
			if !gate.Confirm(targets) {
				fmt.Fprintln(info, "\nDeletion cancelled by user.")
				return nil
			}

			var auditLog *audit.Log
			if auditPath != "" {
				var err error
				auditLog, err = audit.Open(auditPath)
				if err != nil {
					return err
				}
				defer auditLog.Close()
				if err := auditLog.Start(dryRun, len(targets)); err != nil {
					return err
				}
			}

			report.BatchHeader(info, dryRun)

			deleter := batch.NewDeleter(client, batch.Options{
				DryRun:  dryRun,
				Workers: concurrency,
				Progress: func(o batch.Outcome) {
					fmt.Fprintln(info, o.Message())
					if auditLog != nil {
						if err := auditLog.Record(o); err != nil {
							fmt.Fprintf(os.Stderr, "audit: %v\n", err)
						}
					}
				},
			})
			rep := deleter.Run(targets)

			if jsonMode {
				return report.PrintJSON(os.Stdout, rep)
			}
			report.BatchSummary(os.Stdout, rep, dryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted without deleting anything")
	cmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Skip the confirmation prompt")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of parallel delete requests")
	cmd.Flags().StringVar(&auditPath, "audit-log", "", "Append run outcomes to this JSONL file")

	return cmd
}
