package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mailnet/internal/api"
	"mailnet/internal/model"
	"mailnet/internal/mutate"
	"mailnet/internal/render"
	"mailnet/internal/tui"
)

func newMailCmd(app *App) *cobra.Command {
	var mailbox string
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Read and send mail (interactive without a subcommand)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mailbox == "" {
				last, _, err := app.store.LastList(cmd.Context(), app.server())
				if err != nil {
					log.Warnf("load last mailbox: %v", err)
				}
				mailbox = last
			}
			if err := checkMailbox(mailbox); err != nil {
				return err
			}
			return tui.Run(tui.NewMailModel(app.client, mailbox, app.uiOptions()))
		},
	}
	cmd.Flags().StringVar(&mailbox, "mailbox", "", "Mailbox to open (inbox|sent|archive; default: last used)")

	cmd.AddCommand(newMailListCmd(app))
	cmd.AddCommand(newMailShowCmd(app))
	cmd.AddCommand(newMailSendCmd(app))
	cmd.AddCommand(newMailArchiveCmd(app))
	return cmd
}

func checkMailbox(mailbox string) error {
	switch mailbox {
	case "", api.MailboxInbox, api.MailboxSent, api.MailboxArchive:
		return nil
	}
	return errInvalidArg("mailbox", mailbox, "want inbox, sent or archive")
}

func newMailListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [mailbox]",
		Short: "List a mailbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mailbox := api.MailboxInbox
			if len(args) == 1 {
				mailbox = args[0]
			}
			if err := checkMailbox(mailbox); err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			emails, err := app.client.Mailbox(ctx, mailbox)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.MailboxText(mailbox, render.Mailbox(mailbox, emails)))
			return nil
		},
	}
}

func newMailShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print an email and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			e, err := app.client.Email(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.EmailText(e))
			if !e.Read {
				// Same as opening it in the app: failures are only logged.
				if err := app.client.MarkRead(ctx, id); err != nil {
					log.Warnf("mark email %d read: %v", id, err)
				}
			}
			return nil
		},
	}
}

func newMailSendCmd(app *App) *cobra.Command {
	var d model.Draft
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			if err := mutate.Send(ctx, app.client, d); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Email sent.")
			return nil
		},
	}
	cmd.Flags().StringVar(&d.Recipients, "to", "", "Comma-separated recipients")
	cmd.Flags().StringVar(&d.Subject, "subject", "", "Subject")
	cmd.Flags().StringVar(&d.Body, "body", "", "Body")
	return cmd
}

func newMailArchiveCmd(app *App) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive (or with --undo, unarchive) an email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			if err := mutate.Archive(ctx, app.client, id, !undo); err != nil {
				return err
			}
			if undo {
				fmt.Fprintf(cmd.OutOrStdout(), "Email %d unarchived.\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Email %d archived.\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Move the email back to the inbox")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidArg("id", s, "want a positive integer")
	}
	return id, nil
}
