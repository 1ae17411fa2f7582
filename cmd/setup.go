package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"keyframe-curator/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up input and output paths and
the optional Google Drive export. Analyzer, sampler and filter tunables
stay at their defaults; edit the file to change them.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to keyframe-curator setup!")
	fmt.Println()

	newCfg := &config.Config{}

	if err := promptPaths(prompter, newCfg); err != nil {
		return err
	}
	if err := promptGoogle(prompter, newCfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.Save(newCfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	fmt.Println("-- Paths --")

	source, err := prompter.Input("Source directory (where recordings land):", "")
	if err != nil {
		return err
	}
	cfg.Paths.SourceDirectory = source

	output, err := prompter.Input("Output directory:", "output")
	if err != nil {
		return err
	}
	cfg.Paths.OutputDirectory = output

	frames, err := prompter.Input("Frames directory:", filepath.Join(output, "frames"))
	if err != nil {
		return err
	}
	cfg.Paths.FramesDirectory = frames

	fmt.Println()
	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	enable, err := prompter.Confirm("Configure Google Drive export?", false)
	if err != nil {
		return err
	}
	if !enable {
		return nil
	}

	fmt.Println("-- Google Drive --")

	credentials, err := prompter.Input("OAuth credentials file:", "credentials.json")
	if err != nil {
		return err
	}
	cfg.Google.CredentialsFile = credentials

	token, err := prompter.Input("Token file:", "token.json")
	if err != nil {
		return err
	}
	cfg.Google.TokenFile = token

	folderID, err := prompter.Input("Export folder ID:", "")
	if err != nil {
		return err
	}
	cfg.Google.ExportFolderID = folderID

	fmt.Println()
	return nil
}
