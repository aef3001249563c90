package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"mailnet/internal/api"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the stored server session",
	}
	cmd.AddCommand(newSessionSetCmd(app))
	cmd.AddCommand(newSessionShowCmd(app))
	cmd.AddCommand(newSessionClearCmd(app))
	return cmd
}

func newSessionSetCmd(app *App) *cobra.Command {
	var sessionID, csrf string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store cookies copied from a signed-in browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" && csrf == "" {
				return errInvalidArg("cookies", "", "pass --sessionid and/or --csrftoken")
			}
			var cookies []*http.Cookie
			if sessionID != "" {
				cookies = append(cookies, &http.Cookie{Name: api.SessionCookie, Value: sessionID, Path: "/"})
			}
			if csrf != "" {
				cookies = append(cookies, &http.Cookie{Name: api.CSRFCookie, Value: csrf, Path: "/"})
			}
			if err := app.store.SaveCookies(cmd.Context(), app.server(), cookies); err != nil {
				return err
			}
			// Keep the jar from overwriting them on exit.
			app.client = nil
			fmt.Fprintf(cmd.OutOrStdout(), "Session stored for %s.\n", app.server())
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "sessionid", "", "Value of the sessionid cookie")
	cmd.Flags().StringVar(&csrf, "csrftoken", "", "Value of the csrftoken cookie")
	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the stored cookie names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cookies, err := app.store.LoadCookies(cmd.Context(), app.server())
			if err != nil {
				return err
			}
			if len(cookies) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No session stored for %s.\n", app.server())
				return nil
			}
			for _, c := range cookies {
				// Values are credentials; never print them.
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d chars)\n", c.Name, len(c.Value))
			}
			return nil
		},
	}
}

func newSessionClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store.ClearCookies(cmd.Context(), app.server()); err != nil {
				return err
			}
			app.client = nil
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}
