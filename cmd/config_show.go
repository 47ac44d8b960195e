package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/eyaml/internal/configs"
	"github.com/PolarWolf314/eyaml/internal/ui"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Prints the configuration eyaml would use, with defaults filled in for
anything the config file leaves out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		path, err := resolveConfigPath()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve config path: %w", err)
		}

		config, err := configs.Load(path)
		if err != nil {
			return Logger.ErrorfAndReturn("%w", err)
		}
		if len(config.Unknown) > 0 {
			Logger.WarnfAlways("Unknown keys in %s: %s", path, strings.Join(config.Unknown, ", "))
		}

		fmt.Fprintln(cmd.ErrOrStderr(), ui.Muted.Sprint("# "+path))
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(config)
	},
}
