package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"userctl/internal/ece"
	"userctl/internal/report"
)

var (
	version = "dev"
	commit  = "none"
)

// NewRootCommand builds the full command tree. Exposed for reference-doc
// generation; normal runs go through Execute.
func NewRootCommand() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var apiErr *ece.APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.HTTPStatus
				errObj["code"] = apiErr.Code
			}
			_ = report.PrintJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host     string
		username string
		password string
		apiKey   string
		insecure bool
		output   string
		profile  string
		envFile  string
	)

	client := ece.NewClient("", "", "", "")

	rootCmd := &cobra.Command{
		Use:   "userctl",
		Short: "User administration for Elastic Cloud Enterprise",
		Long: `userctl discovers the users an account created, directly or through the
accounts it created, and deletes sets of users with confirmation, dry-run,
and per-user outcome reporting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A dotenv file may supply the ECE_* variables read below.
			if cmd.Flags().Changed("env-file") {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load env file: %w", err)
				}
			} else {
				_ = godotenv.Load()
			}

			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}
			p := cfg.ActiveProfile(profile)

			// Apply precedence: flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("ECE_HOST"); v != "" {
					host = v
				} else if p.Host != "" {
					host = p.Host
				}
			}
			if !cmd.Flags().Changed("username") {
				if v := os.Getenv("ECE_USERNAME"); v != "" {
					username = v
				} else if p.Username != "" {
					username = p.Username
				}
			}
			if !cmd.Flags().Changed("password") {
				// Profiles never store passwords; the environment may.
				if v := os.Getenv("ECE_PASSWORD"); v != "" {
					password = v
				}
			}
			if !cmd.Flags().Changed("api-key") {
				if v := os.Getenv("ECE_API_KEY"); v != "" {
					apiKey = v
				} else if p.APIKey != "" {
					apiKey = p.APIKey
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("ECE_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}

			if err := validateOutputFormat(output); err != nil {
				return err
			}

			// Update client with resolved values
			client.BaseURL = ece.NormalizeHost(host)
			client.Username = username
			client.Password = password
			client.APIKey = apiKey
			if insecure {
				client.InsecureTLS()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "", "ECE hostname or URL (e.g. ece.example.com:12443)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "API username for basic authentication")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "API password for basic authentication")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (takes precedence over basic auth)")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this dotenv file")

	rootCmd.AddCommand(newDiscoverCmd(client))
	rootCmd.AddCommand(newDeleteCmd(client))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
