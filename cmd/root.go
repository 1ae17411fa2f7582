package cmd

import (
	"fmt"
	"os"

	"keyframe-curator/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "keyframe-curator",
	Short: "Curate representative keyframes from screen-recorded videos",
	Long: `keyframe-curator finds the frames worth keeping in lecture and
screen-share recordings:

  - Detect stable intervals between scene changes
  - Sample candidate frames on a regular grid plus scene boundaries
  - Filter candidates by spacing, motion, text density and transcript context
  - Extract the survivors as JPEG stills with a JSON report
  - Optionally publish the set to Google Drive

Example:
  keyframe-curator curate lecture.mp4 --transcript lecture.srt`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional: every tunable has a default.
		cfg = nil
	}
}

// GetConfig returns the loaded configuration, or an empty one so the
// built-in defaults apply
func GetConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}
