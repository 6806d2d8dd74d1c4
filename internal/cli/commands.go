package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/sgva/internal/adapters/backend"
	app "github.com/okian/sgva/internal/app"
	"github.com/okian/sgva/internal/domain/model"
)

func newLoginCommand(st *state) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := st.rt.Service
			if !svc.Login(cmd.Context(), username, password) {
				return ErrCommandFailed
			}
			return printDashboard(cmd.OutOrStdout(), svc.Snapshot())
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func newLogoutCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st.rt.Service.Logout(cmd.Context())
			return nil
		},
	}
}

func newWhoamiCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSession(cmd.OutOrStdout(), st.rt.Sessions.Get(cmd.Context()))
		},
	}
}

func newDashboardCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the summary page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showPage(cmd, st, app.PageDashboard)
		},
	}
}

func newAnalyticsCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show the analytics page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showPage(cmd, st, app.PageAnalytics)
		},
	}
}

func showPage(cmd *cobra.Command, st *state, page app.Page) error {
	svc := st.rt.Service
	if err := svc.GoTo(cmd.Context(), page); err != nil {
		return err
	}
	v := svc.Snapshot()
	if v.Page == app.PageLogin {
		return ErrCommandFailed
	}
	if page == app.PageAnalytics {
		return printAnalytics(cmd.OutOrStdout(), v.Analytics)
	}
	return printDashboard(cmd.OutOrStdout(), v)
}

func newPostulacionesCommand(st *state) *cobra.Command {
	var search, estado string
	cmd := &cobra.Command{
		Use:     "postulaciones",
		Aliases: []string{"ls"},
		Short:   "List postulaciones, optionally filtered",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := st.rt.Service
			svc.OpenPostulaciones(cmd.Context(), backend.Filter{
				Search: search,
				Estado: model.Estado(strings.ToUpper(strings.TrimSpace(estado))),
			})
			v := svc.Snapshot()
			if !v.Postulaciones.Loaded {
				return ErrCommandFailed
			}
			return printPostulaciones(cmd.OutOrStdout(), v.Postulaciones.Items)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "free-text search")
	cmd.Flags().StringVarP(&estado, "estado", "e", "", "only records in this state")
	return cmd
}

func newEstadoCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "estado <id> <ESTADO>",
		Short: "Change the state of a postulacion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			estado := model.Estado(strings.ToUpper(strings.TrimSpace(args[1])))
			svc := st.rt.Service
			if !svc.ChangeEstado(cmd.Context(), id, estado) {
				return ErrCommandFailed
			}
			return printPostulaciones(cmd.OutOrStdout(), svc.Snapshot().Postulaciones.Items)
		},
	}
}

func newOAuthURLCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:       "oauth-url <provider>",
		Short:     "Print the URL that starts a provider login",
		Args:      cobra.ExactArgs(1),
		ValidArgs: backend.OAuthProviders,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := st.rt.Service.OAuthURL(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}
}
