package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/routelens/routelens/app"
	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/config"
	"github.com/routelens/routelens/service"
)

func buildCmd() *cobra.Command {
	var (
		listRoutes   bool
		noCache      bool
		noSave       bool
		outputFormat string
		jsonOutput   bool
		configPath   string
		noProgress   bool
	)

	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Build the import graph and route table",
		Long: `Scan a project, parse its source files, and assemble the import graph
and route table. The result is persisted as a snapshot so later runs
only re-parse changed files.

Examples:
  routelens build .
  routelens build --routes src/my-app
  routelens build --no-cache --format json .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			format, err := resolveFormat(outputFormat, jsonOutput)
			if err != nil {
				return err
			}

			engine, err := newEngine(root, configPath, noProgress, format)
			if err != nil {
				return err
			}

			uc := app.NewBuildUseCase(engine, service.NewOutputFormatter())
			_, err = uc.Execute(cmd.Context(), domain.BuildRequest{
				RootDir:      root,
				NoCache:      noCache,
				NoSave:       noSave,
				ConfigPath:   configPath,
				ListRoutes:   listRoutes,
				OutputFormat: format,
				OutputWriter: cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&listRoutes, "routes", false, "Include the discovered route table in the output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore any persisted snapshot")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist a snapshot after the build")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func routesCmd() *cobra.Command {
	var (
		outputFormat string
		jsonOutput   bool
		configPath   string
	)

	cmd := &cobra.Command{
		Use:   "routes [path]",
		Short: "List the discovered routes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			format, err := resolveFormat(outputFormat, jsonOutput)
			if err != nil {
				return err
			}

			engine, err := newEngine(root, configPath, true, format)
			if err != nil {
				return err
			}

			routes, err := engine.Routes(cmd.Context())
			if err != nil {
				return err
			}
			return service.NewOutputFormatter().WriteRoutes(routes, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

func clearCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "clear-cache [path]",
		Short: "Drop the in-memory caches and the persisted snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			engine, err := newEngine(root, configPath, true, domain.OutputFormatText)
			if err != nil {
				return err
			}
			if err := engine.ClearCache(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

// newEngine wires configuration, progress, and the engine for one root
func newEngine(root, configPath string, noProgress bool, format domain.OutputFormat) (*service.Engine, error) {
	loader := service.NewConfigurationLoader()
	if err := loader.ValidateFormat(format); err != nil {
		return nil, err
	}
	cfg := loader.LoadForTarget(configPath, root)

	progress := progressManager(cfg, noProgress, format)
	return service.NewEngine(root, cfg, progress)
}

// progressManager enables the progress bar only for interactive text
// output; JSON output must stay clean for machine consumers
func progressManager(cfg *config.Config, noProgress bool, format domain.OutputFormat) domain.ProgressManager {
	enabled := cfg.Output.ProgressEnabled() &&
		!noProgress &&
		format != domain.OutputFormatJSON &&
		service.IsInteractiveEnvironment() &&
		os.Getenv("ROUTELENS_NO_PROGRESS") == ""
	return service.NewProgressManager(enabled)
}

func resolveFormat(outputFormat string, jsonOutput bool) (domain.OutputFormat, error) {
	if jsonOutput {
		return domain.OutputFormatJSON, nil
	}
	switch outputFormat {
	case "", "text":
		return domain.OutputFormatText, nil
	case "json":
		return domain.OutputFormatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (must be one of: text, json)", outputFormat)
	}
}
