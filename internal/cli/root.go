// Package cli implements sgvactl, the terminal client of the SGVA
// dashboard. It drives the same service as the HTTP dashboard and shares
// its session file.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	app "github.com/okian/sgva/internal/app"
	"github.com/okian/sgva/internal/config"
	"github.com/okian/sgva/pkg/logger"
)

// ErrCommandFailed is returned when the backend rejected an operation. The
// reason has already been printed as a notification.
var ErrCommandFailed = errors.New("command failed")

type state struct {
	ephemeral bool
	rt        *app.Runtime
}

// NewRootCommand builds the sgvactl command tree.
func NewRootCommand() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:           "sgvactl",
		Short:         "Terminal client for the SGVA dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.setup(cmd)
		},
	}
	root.PersistentFlags().BoolVar(&st.ephemeral, "ephemeral", false, "keep the session in memory only")

	root.AddCommand(
		newLoginCommand(st),
		newLogoutCommand(st),
		newWhoamiCommand(st),
		newDashboardCommand(st),
		newPostulacionesCommand(st),
		newEstadoCommand(st),
		newAnalyticsCommand(st),
		newOAuthURLCommand(st),
	)
	for _, c := range root.Commands() {
		if c.RunE != nil {
			c.RunE = st.flushAfter(c.RunE)
		}
	}
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (st *state) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := logger.InitWith(cmd.ErrOrStderr(), cfg.LogFormat); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	rt, err := app.NewRuntime(cfg, logger.Get().Named("sgvactl"), st.ephemeral)
	if err != nil {
		return err
	}
	st.rt = rt
	return nil
}

// flushAfter prints the notifications a command produced, whether or not
// it failed.
func (st *state) flushAfter(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer func() {
			if st.rt != nil {
				printToasts(cmd.ErrOrStderr(), st.rt.Toasts.Drain())
			}
		}()
		return run(cmd, args)
	}
}
