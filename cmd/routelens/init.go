package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/routelens/routelens/internal/config"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a routelens configuration file",
		Long: `Generate a documented routelens configuration file with sensible
defaults. Use --interactive for a guided setup wizard that tailors the
route conventions to your framework.

Examples:
  # Create .routelens.yaml in the current directory
  routelens init

  # Custom output path
  routelens init --config custom.yaml

  # Overwrite an existing file
  routelens init --force

  # Smaller config with essential options only
  routelens init --minimal

  # Interactive setup wizard
  routelens init --interactive
  routelens init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", ".routelens.yaml",
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	projectType := config.ProjectTypeGeneric

	if interactive {
		var err error
		projectType, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(projectType)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'routelens build .' to map your project's routes.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.ProjectType, string, error) {
	fmt.Println()
	fmt.Println("routelens Configuration Setup")
	fmt.Println("=============================")
	fmt.Println()

	projectTypes := []struct {
		Label       string
		Description string
		Value       config.ProjectType
	}{
		{"Generic JavaScript/TypeScript", "All recognition strategies enabled", config.ProjectTypeGeneric},
		{"React (react-router)", "Markup and object routes, lazy imports", config.ProjectTypeReact},
		{"Next.js", "pages/ and app/ directory conventions", config.ProjectTypeNext},
		{"Remix", "Flat route files with $param segments", config.ProjectTypeRemix},
		{"Vue (vue-router)", "Object routes, async components", config.ProjectTypeVue},
	}

	projectTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	projectPrompt := promptui.Select{
		Label:     "What kind of routing does this project use?",
		Items:     projectTypes,
		Templates: projectTemplates,
	}

	projectIdx, _, err := projectPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("project selection cancelled: %w", err)
	}
	selectedProject := projectTypes[projectIdx].Value

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return selectedProject, outputPath, nil
}
