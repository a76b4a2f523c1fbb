package cli

import (
	"fmt"
	"time"

	authdomain "connect4-backend/internal/auth/domain"
	authUsecase "connect4-backend/internal/auth/usecase"
	userdomain "connect4-backend/internal/user/domain"
	userRepo "connect4-backend/internal/user/repository"
	"connect4-backend/pkg/config"
	"connect4-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type tokenOptions struct {
	id       string
	username string
	roles    []string
	ttl      time.Duration
	create   bool
}

// NewTokenCommand mints an access token signed with the configured secret, for local
// development against a running server.
func NewTokenCommand() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:          "token",
		Short:        "Mint a development access token",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.username == "" {
				return fmt.Errorf("--username is required")
			}
			cfg := config.Load()

			if opts.create {
				id, err := ensureUser(cmd, cfg, opts)
				if err != nil {
					return err
				}
				opts.id = id
			}
			if opts.id == "" {
				opts.id = uuid.New().String()
			}

			token, err := authUsecase.NewAuthenticator(cfg.JWTSecret).Issue(authdomain.Principal{
				ID:       opts.id,
				Username: opts.username,
				Roles:    opts.roles,
			}, opts.ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.id, "id", "", "user id (generated when empty)")
	cmd.Flags().StringVar(&opts.username, "username", "", "username carried by the token")
	cmd.Flags().StringSliceVar(&opts.roles, "role", nil, "role to grant, repeatable")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().BoolVar(&opts.create, "create", false, "create the user in the database if missing")

	return cmd
}

func ensureUser(cmd *cobra.Command, cfg *config.Config, opts *tokenOptions) (string, error) {
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return "", err
	}
	if err := migrate(db); err != nil {
		return "", err
	}

	users := userRepo.NewUserRepository(db)
	ctx := cmd.Context()
	existing, err := users.FindByUsername(ctx, opts.username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	id := opts.id
	if id == "" {
		id = uuid.New().String()
	}
	user := &userdomain.User{ID: id, Username: opts.username, Roles: opts.roles}
	if err := users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}
