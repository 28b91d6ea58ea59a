/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/user-mgmt/apiserver/config"
	"github.com/user-mgmt/apiserver/internal/db"
	"github.com/user-mgmt/apiserver/internal/server"
	"github.com/user-mgmt/apiserver/internal/services"
	"github.com/user-mgmt/apiserver/internal/store"
)

// seedCmd ensures the configured admin account exists without starting the
// HTTP server. The server command runs the same routine at startup.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the configured admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = dbConn.Close()
		}()

		userService := services.NewUserService(store.NewUserRepository(dbConn))
		return server.SeedAdmin(cmd.Context(), cfg, userService)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
