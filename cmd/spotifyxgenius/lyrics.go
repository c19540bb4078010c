package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/config"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics/genius"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics/lrclib"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/track"
)

var lyricsShowTimestamps bool

var lyricsCmd = &cobra.Command{
	Use:   "lyrics <artist> <title>",
	Short: "resolve and print lyrics for a track",
	Long:  `resolves lyrics the same way the viewer does: lrclib first, genius as fallback.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		resolver := lyrics.NewResolver(
			lrclib.New(cfg.LrclibURL),
			genius.New(cfg.GeniusAccessToken),
		)

		info := &track.Info{Artist: args[0], Title: args[1]}
		result := resolver.Resolve(cmd.Context(), info)

		switch result.Kind {
		case lyrics.KindTimestamped:
			fmt.Printf("found synced lyrics via %s: %s - %s\n\n",
				result.Source, result.Track.Artist, result.Track.Title)
			for _, line := range result.Timeline {
				if lyricsShowTimestamps {
					secs := line.TimeMs / 1000
					fmt.Printf("[%d:%02d] %s\n", secs/60, secs%60, line.Text)
				} else {
					fmt.Println(line.Text)
				}
			}

		case lyrics.KindPlainOnly:
			fmt.Printf("found plain lyrics via %s: %s - %s\n\n",
				result.Source, result.Track.Artist, result.Track.Title)
			fmt.Println(result.PlainText)

		case lyrics.KindNotFound:
			return fmt.Errorf("no lyrics found for %s - %s", args[0], args[1])

		case lyrics.KindFetchError:
			return fmt.Errorf("lyric lookup failed: %w", result.Err)
		}

		return nil
	},
}

func init() {
	lyricsCmd.Flags().BoolVarP(&lyricsShowTimestamps, "timestamps", "t", false, "print line timestamps")
	rootCmd.AddCommand(lyricsCmd)
}
