package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/auth"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/config"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics/genius"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/lyrics/lrclib"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/playback"
	mprissrc "github.com/S7EREO-TYPE/spotifyxgenius/internal/playback/mpris"
	spotifysrc "github.com/S7EREO-TYPE/spotifyxgenius/internal/playback/spotify"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/pool"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/ui"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/video"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the interactive lyrics viewer",
	RunE:  runViewer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runViewer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigChan
		cancel()
	}()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagSource != "" {
		cfg.Source = flagSource
	}
	if flagMPVSocket != "" {
		cfg.MPVSocket = flagMPVSocket
	}
	if cmd.Flags().Changed("hide-header") {
		cfg.HideHeader = flagHideHeader
	}

	source, cleanup, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if cfg.GeniusAccessToken == "" {
		log.Warn("no genius access token configured, fallback lyrics will fail")
	}
	resolver := lyrics.NewResolver(
		lrclib.New(cfg.LrclibURL),
		genius.New(cfg.GeniusAccessToken),
	)

	videoCtrl, closeVideo, err := buildVideoController(cfg)
	if err != nil {
		// The viewer is still useful without the video companion.
		log.Warnf("video companion disabled: %v", err)
	}
	if closeVideo != nil {
		defer closeVideo()
	}

	session := pool.New(playback.NewTracker(source, cfg.PollInterval()), resolver, videoCtrl)
	session.Start(ctx)

	model := ui.New(session.Updates(), cfg.HideHeader, session.Stop)
	program := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		session.Stop()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func buildSource(ctx context.Context, cfg *config.Config) (playback.Source, func(), error) {
	switch cfg.Source {
	case "spotify":
		authenticator, err := auth.New(cfg.SpotifyID, cfg.SpotifySecret)
		if err != nil {
			return nil, nil, err
		}
		client, err := authenticator.Client(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("spotify login failed: %w", err)
		}
		return spotifysrc.New(client), nil, nil

	case "mpris":
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to session bus: %w", err)
		}
		source, err := mprissrc.New(bus, cfg.MprisService)
		if err != nil {
			bus.Close()
			return nil, nil, err
		}
		return source, func() { bus.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown playback source %q", cfg.Source)
	}
}

func buildVideoController(cfg *config.Config) (*video.Controller, func(), error) {
	if cfg.MPVSocket == "" {
		return nil, nil, nil
	}
	if cfg.YouTubeAPIKey == "" {
		return nil, nil, fmt.Errorf("mpv socket configured but no youtube api key")
	}

	player, err := video.DialMPV(cfg.MPVSocket)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reach mpv at %s: %w", cfg.MPVSocket, err)
	}

	ctrl := video.NewController(
		video.NewYouTubeLookup(cfg.YouTubeAPIKey),
		player,
		video.NewSynchronizer(cfg.DriftTolerance()),
	)
	return ctrl, func() { player.Close() }, nil
}
