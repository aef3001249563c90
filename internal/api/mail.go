package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mailnet/internal/model"
)

// Mailboxes accepted by GET /emails/{mailbox}.
const (
	MailboxInbox   = "inbox"
	MailboxSent    = "sent"
	MailboxArchive = "archive"
)

// Mailbox lists the summaries in a mailbox.
func (c *Client) Mailbox(ctx context.Context, mailbox string) ([]model.Email, error) {
	path := "/emails/" + url.PathEscape(mailbox)
	emails, err := decode[[]model.Email](http.MethodGet, path,
		c.Request(ctx, http.MethodGet, path, nil))
	if err != nil {
		return nil, fmt.Errorf("load mailbox %s: %w", mailbox, err)
	}
	return emails, nil
}

// Email fetches one record with its full body.
func (c *Client) Email(ctx context.Context, id int64) (model.Email, error) {
	path := emailPath(id)
	e, err := decode[model.Email](http.MethodGet, path,
		c.Request(ctx, http.MethodGet, path, nil))
	if err != nil {
		return model.Email{}, fmt.Errorf("load email %d: %w", id, err)
	}
	return e, nil
}

// Send posts a new email. A server-side rejection (unknown recipient, ...)
// comes back as an application TransportError carrying the server message.
func (c *Client) Send(ctx context.Context, d model.Draft) error {
	_, err := c.Request(ctx, http.MethodPost, "/emails", d).Unpack()
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// MarkRead flags an email as read.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	_, err := c.Request(ctx, http.MethodPut, emailPath(id),
		map[string]bool{"read": true}).Unpack()
	if err != nil {
		return fmt.Errorf("mark email %d read: %w", id, err)
	}
	return nil
}

// SetArchived archives or unarchives an email.
func (c *Client) SetArchived(ctx context.Context, id int64, archived bool) error {
	_, err := c.Request(ctx, http.MethodPut, emailPath(id),
		map[string]bool{"archived": archived}).Unpack()
	if err != nil {
		return fmt.Errorf("set email %d archived=%v: %w", id, archived, err)
	}
	return nil
}

func emailPath(id int64) string {
	return "/emails/" + strconv.FormatInt(id, 10)
}
