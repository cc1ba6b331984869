package cmd

import (
	goRoles "github.com/MrEthical07/goRoles"
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	var req goRoles.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and send the verification email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Password, err = a.secret(cmd, req.Password, "Password"); err != nil {
				return err
			}
			if req.ConfirmPassword, err = a.secret(cmd, req.ConfirmPassword, "Confirm password"); err != nil {
				return err
			}
			msg, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printMessage(msg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Title, "title", "", "title")
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Email, "email", "", "account email")
	f.StringVar(&req.Password, "password", "", "password (prompted when empty)")
	f.StringVar(&req.ConfirmPassword, "confirm-password", "", "password confirmation (prompted when empty)")
	f.BoolVar(&req.AcceptTerms, "accept-terms", false, "accept the terms of service")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newVerifyEmailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email TOKEN",
		Short: "Verify an account with the emailed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.client.VerifyEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printMessage(msg)
		},
	}
}

func newForgotPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password EMAIL",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.client.ForgotPassword(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printMessage(msg)
		},
	}
}

func newValidateResetTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-reset-token TOKEN",
		Short: "Check that a reset token is still valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.client.ValidateResetToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printMessage(msg)
		},
	}
}

func newResetPasswordCmd(a *app) *cobra.Command {
	var password, confirm string

	cmd := &cobra.Command{
		Use:   "reset-password TOKEN",
		Short: "Set a new password with a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := a.secret(cmd, password, "New password")
			if err != nil {
				return err
			}
			cf, err := a.secret(cmd, confirm, "Confirm password")
			if err != nil {
				return err
			}
			msg, err := a.client.ResetPassword(cmd.Context(), args[0], pw, cf)
			if err != nil {
				return err
			}
			return a.printMessage(msg)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password (prompted when empty)")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "password confirmation (prompted when empty)")
	return cmd
}
