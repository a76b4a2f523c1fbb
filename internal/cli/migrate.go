package cli

import (
	"fmt"

	authdomain "connect4-backend/internal/auth/domain"
	chatdomain "connect4-backend/internal/chat/domain"
	gamedomain "connect4-backend/internal/game/domain"
	userdomain "connect4-backend/internal/user/domain"
	"connect4-backend/pkg/config"
	"connect4-backend/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the database schema",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := database.NewConnection(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userdomain.User{},
		&userdomain.Friendship{},
		&authdomain.FCMToken{},
		&gamedomain.MatchRecord{},
		&chatdomain.Message{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
