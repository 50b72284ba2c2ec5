package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/routelens/routelens/app"
	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/service"
)

func impactCmd() *cobra.Command {
	var (
		rootDir      string
		fromStdin    bool
		maxDepth     int
		noCache      bool
		outputFormat string
		jsonOutput   bool
		configPath   string
	)

	cmd := &cobra.Command{
		Use:   "impact [file...]",
		Short: "Report the routes affected by a set of changed files",
		Long: `Determine which URL routes are affected by changes to the given files.
Files are project-relative paths; paths that no longer exist are treated
as deletions. The change set can also be piped in, one path per line.

Examples:
  routelens impact src/components/Button.tsx
  routelens impact --root my-app src/App.tsx src/util.ts
  git diff --name-only HEAD~1 | routelens impact --changed-from-stdin
  routelens impact --max-depth 10 --json src/api/client.ts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := args
			if fromStdin {
				stdinFiles, err := readChangedFiles(cmd)
				if err != nil {
					return err
				}
				changed = append(changed, stdinFiles...)
			}
			if len(changed) == 0 {
				return fmt.Errorf("no changed files specified")
			}

			format, err := resolveFormat(outputFormat, jsonOutput)
			if err != nil {
				return err
			}

			engine, err := newEngine(rootDir, configPath, true, format)
			if err != nil {
				return err
			}

			uc := app.NewImpactUseCase(engine, service.NewOutputFormatter())
			_, err = uc.Execute(cmd.Context(), domain.ImpactRequest{
				RootDir:      rootDir,
				ChangedFiles: changed,
				MaxDepth:     maxDepth,
				NoCache:      noCache,
				ConfigPath:   configPath,
				OutputFormat: format,
				OutputWriter: cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", ".", "Project root directory")
	cmd.Flags().BoolVar(&fromStdin, "changed-from-stdin", false, "Read changed files from stdin, one per line")
	cmd.Flags().IntVarP(&maxDepth, "max-depth", "d", 0, "Traversal depth limit (0 = configured default)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore any persisted snapshot")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

func readChangedFiles(cmd *cobra.Command) ([]string, error) {
	var files []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			files = append(files, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read changed files from stdin: %w", err)
	}
	return files, nil
}
