package model

import "strings"

// Email is a mail record as served by GET /emails/{mailbox} and /emails/{id}.
type Email struct {
	ID         int64    `json:"id"`
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Timestamp  string   `json:"timestamp"`
	Read       bool     `json:"read"`
	Archived   bool     `json:"archived"`
}

// Draft holds the compose form fields.
type Draft struct {
	Recipients string `json:"recipients"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// IsZero reports whether every field of the draft is blank.
func (d Draft) IsZero() bool {
	return strings.TrimSpace(d.Recipients) == "" &&
		strings.TrimSpace(d.Subject) == "" &&
		strings.TrimSpace(d.Body) == ""
}

// ReplyPrefix marks reply subjects.
const ReplyPrefix = "Re:"

// ReplyDraft pre-fills a compose form answering e.
func ReplyDraft(e Email) Draft {
	subject := e.Subject
	if !strings.HasPrefix(subject, ReplyPrefix) {
		subject = ReplyPrefix + " " + subject
	}
	return Draft{
		Recipients: e.Sender,
		Subject:    subject,
		Body:       "\n\nOn " + e.Timestamp + ", " + e.Sender + " wrote:\n" + e.Body,
	}
}

// Post is a feed record.
type Post struct {
	ID         int64  `json:"id"`
	Author     string `json:"author"`
	Content    string `json:"content"`
	DatePosted string `json:"date_posted"`
	Likes      int    `json:"likes"`
	Liked      bool   `json:"is_liked_by_user"`
}

// Cursor is the pagination metadata attached to a feed page. Page numbers
// are zero when the matching Has flag is false.
type Cursor struct {
	HasPrevious  bool `json:"has_previous"`
	HasNext      bool `json:"has_next"`
	PreviousPage int  `json:"previous_page_number"`
	NextPage     int  `json:"next_page_number"`
	NumPages     int  `json:"num_pages"`
}

// PostPage is one page of GET /posts or /users/{username}/posts.
type PostPage struct {
	Posts []Post `json:"posts"`
	Cursor
}

// LikeState is the server's answer to a like toggle.
type LikeState struct {
	Liked bool `json:"is_liked"`
	Count int  `json:"like_count"`
}

// FollowState is the server's answer to a follow toggle.
type FollowState struct {
	Following bool `json:"is_following"`
	Followers int  `json:"new_follower_count"`
}
