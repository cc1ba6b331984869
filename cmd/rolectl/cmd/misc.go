package cmd

import (
	"fmt"
	"strconv"

	"github.com/MrEthical07/goRoles/cmd/rolectl/internal/output"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "config",
		Short:       "Show the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoClient: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOutput() {
				return a.printer.JSON(a.cfg)
			}

			file := a.v.ConfigFileUsed()
			if file == "" {
				file = "(none)"
			}
			table := output.NewTable(a.printer.Out(), []string{"KEY", "VALUE"})
			table.AddRow("config file", file)
			table.AddRow("api.base_url", a.cfg.API.BaseURL)
			table.AddRow("api.resource_path", a.cfg.API.ResourcePath)
			table.AddRow("api.timeout", a.cfg.API.Timeout.String())
			table.AddRow("api.rate_limit", strconv.FormatFloat(a.cfg.API.RateLimit, 'f', -1, 64))
			table.AddRow("session.profile", a.cfg.Session.Profile)
			table.AddRow("session.prefix", a.cfg.Session.Prefix)
			table.AddRow("session.ttl", a.cfg.Session.TTL.String())
			table.AddRow("refresh.lead", a.cfg.Refresh.Lead.String())
			table.AddRow("redis.addr", a.cfg.Redis.Addr)
			table.AddRow("logging.level", a.cfg.Logging.Level)
			table.AddRow("output.format", a.cfg.Output.Format)
			return table.Render()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the rolectl version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoClient: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "rolectl "+version)
			return err
		},
	}
}
