package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thand-io/usermanager/internal/config"
	"github.com/thand-io/usermanager/internal/directory"
	"github.com/thand-io/usermanager/internal/shell"
)

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	return cfg, nil
}

// newPrompter uses terminal input fields when stdin is a terminal and
// plain line reads otherwise.
func newPrompter(cmd *cobra.Command) shell.Prompter {
	in := cmd.InOrStdin()

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return &shell.FormPrompter{
			Accessible: len(os.Getenv("ACCESSIBLE")) > 0,
		}
	}

	return shell.NewLinePrompter(in, cmd.OutOrStdout())
}

func runShell(cmd *cobra.Command, _ []string) error {
	// Configuration is validated here, before any request can be made.
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client, err := directory.NewClient(cfg.Directory)
	if err != nil {
		return fmt.Errorf("failed to create directory client: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"domain": cfg.Directory.Domain,
	}).Debug("Starting user manager")

	s := shell.New(client, newPrompter(cmd), cmd.OutOrStdout(), shell.Options{
		Activate:  cfg.Users.Activate,
		SendEmail: cfg.Users.SendEmail,
	})

	return s.Run(cmd.Context())
}

var rootCmd = &cobra.Command{
	Use:   "usermanager",
	Short: "Manage directory users from an interactive menu",
	Long: `usermanager lists, creates, updates, activates and deactivates users
of an Okta style directory and manages their group membership.

The directory is configured through the environment:
  OKTA_DOMAIN   hostname of the directory, e.g. example.okta.com
  API_TOKEN     API token sent as "Authorization: SSWS <token>"

Both may also be set in a .env file or a config.yaml file.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is ./config.yaml or $HOME/.config/usermanager/config.yaml)")

}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}
