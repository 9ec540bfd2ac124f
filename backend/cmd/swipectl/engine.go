package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/app/apiapp"
	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
	"github.com/TLN1/linkr-back/backend/internal/domain/rules"
)

var (
	userID        int64
	applicationID int64
	ownerID       int64
	direction     string
	limit         int
	locations     []string
	jobTypes      []string
	levels        []string
	industries    []string
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Select candidates for a user, or for an application with --application",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd.Context(), func(ctx context.Context, e *apiapp.Engine, _ *zap.Logger) error {
			n := candidateLimit(limit, e.Feed.DefaultLimit())
			if applicationID > 0 {
				users, err := e.Feed.Users(ctx, userID, applicationID, n)
				if err != nil {
					return err
				}
				return printJSON(cmd, users)
			}

			pref, err := rules.ParsePreference(locations, jobTypes, levels, industries)
			if err != nil {
				return err
			}
			override := &pref
			if pref.IsEmpty() {
				override = nil
			}
			apps, err := e.Feed.Applications(ctx, userID, override, n)
			if err != nil {
				return err
			}
			return printJSON(cmd, apps)
		})
	},
}

var checkMatchCmd = &cobra.Command{
	Use:   "check-match",
	Short: "Report whether a user and an application matched",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd.Context(), func(ctx context.Context, e *apiapp.Engine, _ *zap.Logger) error {
			res, err := e.Matches.Check(ctx, userID, applicationID)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		})
	},
}

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Record a swipe; with --owner the owner swipes the user for the application",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, ok := enums.ParseSwipeDirection(direction)
		if !ok {
			return fmt.Errorf("direction must be LEFT or RIGHT, got %q", direction)
		}

		return withEngine(cmd.Context(), func(ctx context.Context, e *apiapp.Engine, _ *zap.Logger) error {
			if ownerID > 0 {
				res, err := e.Swipes.SwipeUser(ctx, ownerID, applicationID, userID, dir)
				if err != nil {
					return err
				}
				return printJSON(cmd, res)
			}

			res, err := e.Swipes.SwipeApplication(ctx, userID, applicationID, dir)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		})
	},
}

// candidateLimit maps an unset --limit to the feed default. The engine itself
// treats 0 as an empty selection.
func candidateLimit(flag, fallback int) int {
	if flag <= 0 {
		return fallback
	}
	return flag
}

func init() {
	candidatesCmd.Flags().Int64Var(&userID, "user", 0, "acting user id (the owner when --application is set)")
	candidatesCmd.Flags().Int64Var(&applicationID, "application", 0, "select users for this application")
	candidatesCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of candidates (0 uses the configured default)")
	candidatesCmd.Flags().StringSliceVar(&locations, "location", nil, "location filter")
	candidatesCmd.Flags().StringSliceVar(&jobTypes, "job-type", nil, "job type filter")
	candidatesCmd.Flags().StringSliceVar(&levels, "experience-level", nil, "experience level filter")
	candidatesCmd.Flags().StringSliceVar(&industries, "industry", nil, "industry filter")
	_ = candidatesCmd.MarkFlagRequired("user")

	checkMatchCmd.Flags().Int64Var(&userID, "user", 0, "user id")
	checkMatchCmd.Flags().Int64Var(&applicationID, "application", 0, "application id")
	_ = checkMatchCmd.MarkFlagRequired("user")
	_ = checkMatchCmd.MarkFlagRequired("application")

	swipeCmd.Flags().Int64Var(&userID, "user", 0, "user id")
	swipeCmd.Flags().Int64Var(&applicationID, "application", 0, "application id")
	swipeCmd.Flags().Int64Var(&ownerID, "owner", 0, "swipe as this application owner")
	swipeCmd.Flags().StringVar(&direction, "direction", "", "LEFT or RIGHT")
	_ = swipeCmd.MarkFlagRequired("user")
	_ = swipeCmd.MarkFlagRequired("application")
	_ = swipeCmd.MarkFlagRequired("direction")

	rootCmd.AddCommand(candidatesCmd, checkMatchCmd, swipeCmd)
}
