// Package cmd contains the rolectl commands.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	goRoles "github.com/MrEthical07/goRoles"
	"github.com/MrEthical07/goRoles/cmd/rolectl/internal/config"
	"github.com/MrEthical07/goRoles/cmd/rolectl/internal/output"
	"github.com/MrEthical07/goRoles/session"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// SetVersion sets the version string reported by 'rolectl version'.
func SetVersion(v string) {
	version = v
}

const (
	annotationNoClient = "rolectl/no-client"
	annotationRefresh  = "rolectl/refresh"
)

// app is the state shared by one command tree.
type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	client  *goRoles.Client
	redis   *redis.Client
	stdin   *bufio.Reader
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "rolectl",
		Short: "Role directory client",
		Long: `rolectl signs in to a role API and manages its role directory.

Sessions are kept in Redis between invocations when redis.addr is set.

Example usage:
  rolectl login --email admin@example.com
  rolectl list
  rolectl update 42 --role Admin
  rolectl watch                # keep the session fresh until interrupted`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .rolectl.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.String("base-url", "", "role API base URL")
	flags.String("profile", "", "session profile name")
	flags.String("redis-addr", "", "redis address used to keep the session")
	flags.StringP("output", "o", "", "output format: table or json")

	_ = a.v.BindPFlag("api.base_url", flags.Lookup("base-url"))
	_ = a.v.BindPFlag("session.profile", flags.Lookup("profile"))
	_ = a.v.BindPFlag("redis.addr", flags.Lookup("redis-addr"))
	_ = a.v.BindPFlag("output.format", flags.Lookup("output"))

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRefreshCmd(a),
		newWhoamiCmd(a),
		newWatchCmd(a),
		newRegisterCmd(a),
		newVerifyEmailCmd(a),
		newForgotPasswordCmd(a),
		newValidateResetTokenCmd(a),
		newResetPasswordCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root, a
}

// Execute runs rolectl with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err == nil {
		return output.ExitSuccess
	}

	printer := a.printer
	if printer == nil {
		printer = output.NewPrinter(stdout, stderr, false)
	}
	printer.Error("%v", err)
	if hint := output.Hint(err); hint != "" {
		printer.Warning("%s", hint)
	}
	return output.ExitCode(err)
}

// init loads configuration and, unless the command opts out, connects the
// client and restores any saved session.
func (a *app) init(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return &output.ConfigError{Err: fmt.Errorf("loading config: %w", err)}
	}
	a.cfg = cfg

	if !a.verbose {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Logging.Level)); err == nil {
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
		}
	}
	a.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(cfg.Output.Colors))

	a.logger.Debug("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"profile", cfg.Session.Profile,
		"redis", cfg.Redis.Addr != "",
	)

	if cmd.Annotations[annotationNoClient] == "true" {
		return nil
	}
	return a.connect(cmd.Context(), cmd.Annotations[annotationRefresh] == "true")
}

func (a *app) connect(ctx context.Context, refresh bool) error {
	clientCfg := a.cfg.Client()
	clientCfg.Refresh.Enabled = refresh
	clientCfg.Audit.Enabled = a.verbose

	b := goRoles.New().
		WithConfig(clientCfg).
		WithLogger(a.logger).
		WithAuditSink(goRoles.NewSlogSink(a.logger)).
		WithNavigator(goRoles.NavigatorFunc(func(_ context.Context, route string) error {
			a.logger.Debug("session ended", "route", route)
			return nil
		}))

	if a.cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		persister := session.NewRedisPersister(a.redis, a.cfg.Session.Prefix, a.cfg.Session.Profile)
		rtt, err := persister.Ping(ctx)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.logger.Debug("redis connected", "addr", a.cfg.Redis.Addr, "rtt", rtt)
		b.WithPersister(persister)
	}

	client, err := b.Build()
	if err != nil {
		return &output.ConfigError{Err: err}
	}
	a.client = client

	role, restored, err := client.Restore(ctx)
	switch {
	case err != nil:
		a.logger.Warn("saved session not restored", "error", err)
	case restored:
		a.logger.Debug("session restored", "role_id", role.ID)
	}
	return nil
}

// close waits for detached work such as token revocation and releases
// connections.
func (a *app) close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// current returns the signed-in identity or [goRoles.ErrNoCurrentRole].
func (a *app) current() (goRoles.Role, error) {
	role, ok := a.client.Current()
	if !ok {
		return goRoles.Role{}, goRoles.ErrNoCurrentRole
	}
	return role, nil
}
