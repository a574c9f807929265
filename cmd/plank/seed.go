package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcallahan/plank/internal/auth"
	"github.com/jcallahan/plank/internal/user"
)

func newSeedCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision a guest identity with a demo project",
		Long:  "Creates a fresh demo project with members and a seeded board, and prints a session token for it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}

			guest, err := user.ProvisionGuest(gormDB)
			if err != nil {
				return err
			}

			ttl := time.Duration(cfg.Auth.TokenTTLDays) * 24 * time.Hour
			token, err := auth.IssueToken(cfg.Auth.Secret, ttl, guest.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project: %s\n", guest.ProjectID)
			fmt.Fprintf(out, "User:    %s (%s)\n", guest.ID, guest.Name)
			fmt.Fprintf(out, "Token:   %s\n", token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "plank.yaml", "path to Plank config file")
	return cmd
}
