package cmd

import (
	"github.com/spf13/cobra"
)

var (
	recordingsDir string
	outputFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "flowcap",
	Short: "Compile recorded user sessions into replayable workflows",
	Long:  "A session compiler that turns raw interaction recordings (clicks, keystrokes, drags) into structured, replayable workflow definitions.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&recordingsDir, "recordings-dir", "./recordings", "directory containing raw recording JSON files")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or text")
}

func Execute() error {
	return rootCmd.Execute()
}
