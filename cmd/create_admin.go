package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpupo63/photo-portfolio/auth"
	"github.com/rpupo63/photo-portfolio/database"
	"github.com/rpupo63/photo-portfolio/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the administrator account used to sign in",
	RunE:  runCreateAdmin,
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().String("email", "", "Administrator email")
	createAdminCmd.Flags().String("password", "", "Administrator password (at least 8 characters)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	email := strings.TrimSpace(mustGetString(cmd, "email"))
	hash, err := auth.HashPassword(mustGetString(cmd, "password"))
	if err != nil {
		return err
	}

	db, err := openMaintenanceDB(ctx)
	if err != nil {
		return err
	}
	users := database.New(db).UserRepo()

	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up %s: %w", email, err)
	}
	if existing != nil {
		return fmt.Errorf("an account for %s already exists", email)
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := users.Add(ctx, user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info().Str("email", user.Email).Str("id", user.ID.String()).Msg("administrator created")
	return nil
}
