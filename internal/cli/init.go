package cli

import (
	"fmt"

	"github.com/HartBrook/elkhorn/internal/config"
	"github.com/HartBrook/elkhorn/internal/github"
	"github.com/spf13/cobra"
)

type initOptions struct {
	force bool
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Creates a configuration file with default settings. Elkhorn works
without one; init exists so the defaults are visible and editable.`,
		Example: `  elkhorn init`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration file")

	return cmd
}

func runInit(opts *initOptions) error {
	paths := config.NewPaths()

	if config.Exists() && !opts.force {
		printWarning("already configured at %s", paths.ConfigFile)
		fmt.Printf("  %s\n", dim("Pass --force to overwrite with defaults"))
		return nil
	}

	if err := config.Save(config.NewDefaultConfig()); err != nil {
		return err
	}

	printSuccess("configuration written")
	printInfo("config", paths.ConfigFile)
	printInfo("cache", paths.CacheRoot)
	printInfo("auth", github.AuthMethod())
	return nil
}
