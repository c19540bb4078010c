package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// global flags
	flagConfig     string
	flagSource     string
	flagMPVSocket  string
	flagHideHeader bool
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "spotifyxgenius",
	Short: "synchronized lyrics viewer with an optional music video companion",
	Long: `spotifyxgenius shows timestamped lyrics for whatever is playing,
fetched from lrclib with a genius fallback, and can keep an mpv window
playing the matching music video in sync with the song.

when run without a subcommand, it starts the interactive viewer.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}
		log.SetOutput(os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "playback source: spotify or mpris")
	rootCmd.PersistentFlags().StringVar(&flagMPVSocket, "mpv-socket", "", "mpv ipc socket for the video companion")
	rootCmd.PersistentFlags().BoolVarP(&flagHideHeader, "hide-header", "H", false, "hide the track header")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
