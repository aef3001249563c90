package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"mailnet/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc, cookies ...*http.Cookie) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/", Cookies: cookies})
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadScheme(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.com"})
	require.Error(t, err)
}

func TestRequestDecodesJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/emails/inbox", r.URL.Path)
		require.NotEmpty(t, r.Header.Get(requestIDHeader))
		w.Write([]byte(`[{"id":1,"sender":"a@x.com","recipients":["b@x.com"],"subject":"hi","read":true}]`))
	})

	emails, err := c.Mailbox(context.Background(), MailboxInbox)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	require.Equal(t, int64(1), emails[0].ID)
	require.True(t, emails[0].Read)
}

func TestRequestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url})
	require.NoError(t, err)

	_, err = c.Request(context.Background(), http.MethodGet, "/emails/inbox", nil).Unpack()
	require.True(t, IsKind(err, KindNetwork), "got %v", err)
	require.Equal(t, "server unreachable", UserMessage(err))
}

func TestRequestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>nope</html>"))
	})
	_, err := c.Request(context.Background(), http.MethodGet, "/emails/inbox", nil).Unpack()
	require.True(t, IsKind(err, KindDecode), "got %v", err)
}

func TestRequestApplicationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "User with email nobody@x.com does not exist."}`))
	})
	err := c.Send(context.Background(), model.Draft{Recipients: "nobody@x.com"})
	require.True(t, IsKind(err, KindApplication), "got %v", err)
	require.Equal(t, "User with email nobody@x.com does not exist.", UserMessage(err))
}

func TestRequestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	err := c.EditPost(context.Background(), 3, "x")
	require.True(t, IsKind(err, KindStatus), "got %v", err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.StatusForbidden, te.Status)
}

func TestEmptyBodyIsNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		b, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"read": true}`, string(b))
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.MarkRead(context.Background(), 7))

	raw, err := c.Request(context.Background(), http.MethodPut, "/emails/7", nil).Unpack()
	require.NoError(t, err)
	require.Equal(t, json.RawMessage("null"), raw)
}

func TestCSRFHeaderOnlyWhenRequested(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(csrfHeader))
		w.Write([]byte(`{"is_liked": true, "like_count": 5}`))
	}, &http.Cookie{Name: CSRFCookie, Value: "tok123"})

	require.Equal(t, "tok123", c.CSRFToken())

	st, err := c.ToggleLike(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, model.LikeState{Liked: true, Count: 5}, st)

	_, err = c.Request(context.Background(), http.MethodGet, "/emails/inbox", nil).Unpack()
	require.NoError(t, err)

	require.Equal(t, []string{"tok123", ""}, seen)
}

func TestBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"posts": [], "has_next": false, "has_previous": false}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Token: "s3cret"})
	require.NoError(t, err)
	page, err := c.Posts(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, page.Posts)
}

func TestPostsCursorWithNulls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"posts":[{"id":4,"author":"ann","content":"hey","likes":2,"is_liked_by_user":true}],
			"has_next": false, "has_previous": true,
			"next_page_number": null, "previous_page_number": 1, "num_pages": 2}`))
	})
	page, err := c.Posts(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, page.HasPrevious)
	require.False(t, page.HasNext)
	require.Equal(t, 1, page.PreviousPage)
	require.Equal(t, 0, page.NextPage)
	require.Equal(t, "ann", page.Posts[0].Author)
	require.True(t, page.Posts[0].Liked)
}

func TestCreatePostAcceptsHTMLResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{"newPost": "hello"}`, string(b))
		w.Write([]byte("<!DOCTYPE html><html></html>"))
	})
	require.NoError(t, c.CreatePost(context.Background(), "hello"))
}

func TestCookiesReflectSetCookie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: CSRFCookie, Value: "rotated", Path: "/"})
		w.Write([]byte(`[]`))
	})
	_, err := c.Mailbox(context.Background(), MailboxSent)
	require.NoError(t, err)
	require.Equal(t, "rotated", c.CSRFToken())
}
