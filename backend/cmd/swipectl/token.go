package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/app/apiapp"
)

var tokenUserID int64

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for an existing account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd.Context(), func(ctx context.Context, e *apiapp.Engine, _ *zap.Logger) error {
			res, err := e.Auth.Issue(ctx, tokenUserID)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"access_token":  res.AccessToken,
				"refresh_token": res.RefreshToken,
				"expires_at":    res.AccessExpires.Format(time.RFC3339),
			})
		})
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "account id")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
