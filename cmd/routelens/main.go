package main

import (
	"fmt"
	"os"

	"github.com/routelens/routelens/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "routelens",
		Short: "routelens - route impact analysis for front-end projects",
		Long: `routelens statically maps source files to the URL routes they affect.
It builds an import graph of a JavaScript/TypeScript project, recognizes
route declarations across framework conventions, and answers "which
routes does this change touch" without running the application.`,
		Version: Version,
	}

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(impactCmd())
	rootCmd.AddCommand(routesCmd())
	rootCmd.AddCommand(clearCacheCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("routelens version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
