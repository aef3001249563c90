package mutate

import (
	"context"
	"strings"

	"mailnet/internal/model"
	"mailnet/internal/util"
)

// MailSender posts new emails.
type MailSender interface {
	Send(ctx context.Context, d model.Draft) error
}

// Archiver flips an email's archived flag.
type Archiver interface {
	SetArchived(ctx context.Context, id int64, archived bool) error
}

// PostEditor replaces a post's content.
type PostEditor interface {
	EditPost(ctx context.Context, id int64, content string) error
}

// PostCreator publishes posts.
type PostCreator interface {
	CreatePost(ctx context.Context, content string) error
}

// ValidateDraft rejects drafts that cannot be sent.
func ValidateDraft(d model.Draft) error {
	if len(util.SplitRecipients(d.Recipients)) == 0 {
		return errValidation("recipients", "Please enter at least one recipient.")
	}
	return nil
}

// Send validates the draft locally and only then posts it. Validation
// failures never reach the network.
func Send(ctx context.Context, api MailSender, d model.Draft) error {
	if err := ValidateDraft(d); err != nil {
		return err
	}
	d.Recipients = strings.TrimSpace(d.Recipients)
	log.Infof("sending email to %q", d.Recipients)
	return api.Send(ctx, d)
}

// Archive sets the archived flag of an email. The caller reloads the inbox
// on success rather than patching rows.
func Archive(ctx context.Context, api Archiver, id int64, archived bool) error {
	if err := api.SetArchived(ctx, id, archived); err != nil {
		log.Warnf("archive email %d: %v", id, err)
		return err
	}
	return nil
}

// EditBuffer holds an inline edit in progress.
type EditBuffer struct {
	PostID   int64
	Original string
	Content  string
}

// BeginEdit opens an edit buffer pre-filled with the post's content. Only
// the author may edit.
func BeginEdit(p model.Post, currentUser string) (EditBuffer, error) {
	if currentUser == "" || p.Author != currentUser {
		return EditBuffer{}, ErrNotAuthor
	}
	return EditBuffer{PostID: p.ID, Original: p.Content, Content: p.Content}, nil
}

// SaveEdit sends the buffer. Cancelling an edit needs no call at all: the
// buffer is simply discarded.
func SaveEdit(ctx context.Context, api PostEditor, b EditBuffer) error {
	if err := api.EditPost(ctx, b.PostID, b.Content); err != nil {
		log.Warnf("edit post %d: %v", b.PostID, err)
		return err
	}
	return nil
}

// ValidatePost rejects empty posts.
func ValidatePost(content string) error {
	if strings.TrimSpace(content) == "" {
		return errValidation("content", "Post content cannot be empty.")
	}
	return nil
}

// CreatePost validates and publishes a new post.
func CreatePost(ctx context.Context, api PostCreator, content string) error {
	if err := ValidatePost(content); err != nil {
		return err
	}
	return api.CreatePost(ctx, content)
}
