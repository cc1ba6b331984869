package cmd

import (
	"context"
	"errors"
	"time"

	goRoles "github.com/MrEthical07/goRoles"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := a.secret(cmd, password, "Password")
			if err != nil {
				return err
			}
			role, err := a.client.Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printer.JSON(role)
			}
			a.printer.Success("Signed in as %s (%s)", displayName(role), role.Role)
			if a.redis == nil {
				a.printer.Warning("redis.addr is not set; the session ends with this command")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the refresh token and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := a.current()
			if err != nil {
				return err
			}
			a.client.Logout(cmd.Context())
			a.printer.Success("Signed out %s", role.Email)
			return nil
		},
	}
}

func newRefreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh cookie for a new credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := a.client.RefreshToken(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printer.JSON(role)
			}
			a.printer.Success("Session refreshed for %s", role.Email)
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := a.current()
			if err != nil {
				return err
			}
			return a.printRole(role)
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the session fresh and print every change",
		Long: `watch keeps the refresh timer running and prints each published session
state until interrupted, or until --duration elapses.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRefresh: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			sub := a.client.Subscribe()
			defer sub.Close()

			for {
				select {
				case <-ctx.Done():
					if errors.Is(ctx.Err(), context.DeadlineExceeded) {
						return nil
					}
					return ctx.Err()
				case snap, ok := <-sub.C():
					if !ok {
						return nil
					}
					a.printSnapshot(snap)
				}
			}
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	return cmd
}

func (a *app) printSnapshot(snap goRoles.SessionSnapshot) {
	if !snap.Present {
		a.printer.Info("[%d] signed out", snap.Version)
		return
	}
	next, armed := a.client.NextRefresh()
	if !armed {
		a.printer.Info("[%d] %s (%s)", snap.Version, snap.Value.Email, snap.Value.Role)
		return
	}
	a.printer.Info("[%d] %s (%s), next refresh %s",
		snap.Version, snap.Value.Email, snap.Value.Role, next.Local().Format(time.RFC3339))
}
