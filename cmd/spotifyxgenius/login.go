package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/S7EREO-TYPE/spotifyxgenius/internal/auth"
	"github.com/S7EREO-TYPE/spotifyxgenius/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "log in to spotify and store the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		authenticator, err := auth.New(cfg.SpotifyID, cfg.SpotifySecret)
		if err != nil {
			return err
		}

		client, err := authenticator.Client(cmd.Context())
		if err != nil {
			return err
		}

		user, err := client.CurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to verify login: %w", err)
		}

		fmt.Printf("logged in as %s\n", user.DisplayName)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "remove the stored spotify token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		authenticator, err := auth.New(cfg.SpotifyID, cfg.SpotifySecret)
		if err != nil {
			return err
		}

		if err := authenticator.Logout(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
