package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/threaddit/backend/internal/app"
	"github.com/threaddit/backend/internal/application/services"
)

var admin services.RegisterInput

var ensureAdminCmd = &cobra.Command{
	Use:   "ensure-admin",
	Short: "Create an admin account or promote an existing one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if admin.Password == "" {
			admin.Password = os.Getenv("ADMIN_PASSWORD")
		}
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			user, err := a.Services.Users.EnsureAdmin(ctx, admin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s (id %d) is an admin\n", user.Username, user.ID)
			return nil
		})
	},
}

var forceLoginCmd = &cobra.Command{
	Use:   "force-login <username>",
	Short: "Open a session for a user and print its cookie value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			user, err := a.Services.Users.GetByUsername(ctx, args[0])
			if err != nil {
				return err
			}
			result, err := a.Services.Auth.Login(ctx, user, "127.0.0.1", "threaddit-cli")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session=%s\n", result.Token)
			fmt.Fprintf(out, "expires %s\n", result.ExpiresAt.Format(time.RFC3339))
			return nil
		})
	},
}

func init() {
	ensureAdminCmd.Flags().StringVar(&admin.Username, "username", "admin_user", "admin username")
	ensureAdminCmd.Flags().StringVar(&admin.Email, "email", "", "admin email")
	ensureAdminCmd.Flags().StringVar(&admin.Password, "password", "", "admin password (defaults to $ADMIN_PASSWORD)")
	_ = ensureAdminCmd.MarkFlagRequired("email")
}
