package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage sign-in sessions",
}

var sessionsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired and revoked sessions",
	RunE:  runSessionsCleanup,
}

var sessionsGrace time.Duration

func runSessionsCleanup(cmd *cobra.Command, _ []string) error {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	now := time.Now()
	deleted, err := deps.Sessions.DeleteExpired(ctx, now.Add(-sessionsGrace))
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	live, err := deps.Sessions.CountLive(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to count live sessions: %w", err)
	}

	deps.Logger.Info("sessions cleaned up", "deleted", deleted, "live", live)
	return nil
}

func init() {
	sessionsCleanupCmd.Flags().DurationVar(&sessionsGrace, "grace", 0, "keep sessions that expired within this window")

	sessionsCmd.AddCommand(sessionsCleanupCmd)
	rootCmd.AddCommand(sessionsCmd)
}
