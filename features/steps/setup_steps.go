//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"keyframe-curator/cmd"
	"keyframe-curator/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.originalContent = ""
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		SharedSetupContext = &setupContext{}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with drive export enabled and inputs:$`, testCtx.iRunTheSetupCommandWithDriveExportAndInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config should have source_directory "([^"]*)"$`, testCtx.theConfigShouldHaveSourceDirectory)
	ctx.Step(`^the config should have output_directory "([^"]*)"$`, testCtx.theConfigShouldHaveOutputDirectory)
	ctx.Step(`^the config should have frames_directory "([^"]*)"$`, testCtx.theConfigShouldHaveFramesDirectory)
	ctx.Step(`^the config should have export_folder_id "([^"]*)"$`, testCtx.theConfigShouldHaveExportFolderId)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	s.originalContent = "paths:\n  source_directory: old-recordings\n"
	return os.WriteFile(s.configPath, []byte(s.originalContent), 0644)
}

func tableInputs(table *godog.Table) []string {
	inputs := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		inputs = append(inputs, row.Cells[0].Value)
	}
	return inputs
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	prompter := NewMockPrompter(tableInputs(table), []bool{false})
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	return s.err
}

func (s *setupContext) iRunTheSetupCommandWithDriveExportAndInputs(table *godog.Table) error {
	prompter := NewMockPrompter(tableInputs(table), []bool{true})
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	return s.err
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(answer string) error {
	prompter := NewMockPrompter(nil, []bool{answer == "yes"})
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath)
	return s.err
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); err != nil {
		return fmt.Errorf("config file not found at %s: %w", s.configPath, err)
	}
	return nil
}

func (s *setupContext) loadSavedConfig() (*config.Config, error) {
	return config.Load(s.configPath)
}

func (s *setupContext) theConfigShouldHaveSourceDirectory(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.SourceDirectory != expected {
		return fmt.Errorf("expected source_directory %q, got %q", expected, cfg.Paths.SourceDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveOutputDirectory(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.OutputDirectory != expected {
		return fmt.Errorf("expected output_directory %q, got %q", expected, cfg.Paths.OutputDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveFramesDirectory(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.FramesDirectory != expected {
		return fmt.Errorf("expected frames_directory %q, got %q", expected, cfg.Paths.FramesDirectory)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveExportFolderId(expected string) error {
	cfg, err := s.loadSavedConfig()
	if err != nil {
		return err
	}
	if cfg.Google.ExportFolderID != expected {
		return fmt.Errorf("expected export_folder_id %q, got %q", expected, cfg.Google.ExportFolderID)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if s.err != nil {
		return fmt.Errorf("expected setup to cancel cleanly, got error: %w", s.err)
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config file was modified")
	}
	return nil
}
