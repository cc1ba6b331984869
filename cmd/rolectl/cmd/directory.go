package cmd

import (
	goRoles "github.com/MrEthical07/goRoles"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all roles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roles, err := a.client.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return a.printRoles(roles)
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := a.client.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printRole(role)
		},
	}
}

func bindRoleParams(f *pflag.FlagSet, p *goRoles.RoleParams) {
	f.StringVar(&p.Title, "title", "", "title")
	f.StringVar(&p.FirstName, "first-name", "", "first name")
	f.StringVar(&p.LastName, "last-name", "", "last name")
	f.StringVar(&p.Email, "email", "", "email")
	f.StringVar(&p.Role, "role", "", "role name, e.g. Admin or User")
	f.StringVar(&p.Password, "password", "", "password")
	f.StringVar(&p.ConfirmPassword, "confirm-password", "", "password confirmation")
}

func newCreateCmd(a *app) *cobra.Command {
	var params goRoles.RoleParams

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := a.client.Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printer.JSON(role)
			}
			a.printer.Success("Created %s (%s)", role.Email, role.ID)
			return nil
		},
	}
	bindRoleParams(cmd.Flags(), &params)
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var params goRoles.RoleParams

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a role; only the given fields are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := a.client.Update(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return a.printer.JSON(role)
			}
			a.printer.Success("Updated %s (%s)", role.Email, role.ID)
			return nil
		},
	}
	bindRoleParams(cmd.Flags(), &params)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a role; deleting yourself ends the session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			self := false
			if current, ok := a.client.Current(); ok {
				self = current.ID == args[0]
			}
			if err := a.client.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printer.Success("Deleted %s", args[0])
			if self {
				a.printer.Info("Your session has ended")
			}
			return nil
		},
	}
}
