package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mailnet/internal/api"
	"mailnet/internal/logging"
)

type request struct {
	method string
	path   string
	body   map[string]any
	csrf   string
}

// fakeServer answers the endpoints the commands touch and records every
// request it sees.
type fakeServer struct {
	mu   sync.Mutex
	reqs []request
	srv  *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.reqs = append(f.reqs, request{
		method: r.Method,
		path:   r.URL.RequestURI(),
		body:   body,
		csrf:   r.Header.Get("X-CSRFToken"),
	})
	f.mu.Unlock()

	switch r.Method + " " + r.URL.Path {
	case "GET /emails/inbox":
		w.Write([]byte(`[
			{"id":7,"sender":"bob@x.com","recipients":["ann@x.com"],"subject":"Lunch?","timestamp":"Jan 02 2024, 03:04 PM","read":false},
			{"id":3,"sender":"cat@x.com","recipients":["ann@x.com"],"subject":"Minutes","timestamp":"Jan 01 2024, 09:00 AM","read":true}
		]`))
	case "GET /emails/sent":
		w.Write([]byte(`[]`))
	case "GET /emails/7":
		w.Write([]byte(`{"id":7,"sender":"bob@x.com","recipients":["ann@x.com"],"subject":"Lunch?","body":"Noon at the usual place.","timestamp":"Jan 02 2024, 03:04 PM","read":false}`))
	case "PUT /emails/7":
		w.WriteHeader(http.StatusNoContent)
	case "POST /emails":
		if body["recipients"] == "nobody@x.com" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"User with email nobody@x.com does not exist."}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Email sent successfully."}`))
	case "GET /posts":
		w.Write([]byte(`{"posts":[{"id":1,"author":"ann","content":"hello world","date_posted":"Jan 02 2024, 03:04 PM","likes":2,"is_liked_by_user":false}],
			"has_previous":false,"has_next":true,"next_page_number":2,"num_pages":2}`))
	case "POST /posts/1/like":
		w.Write([]byte(`{"is_liked":true,"like_count":3}`))
	case "POST /follow/bob":
		w.Write([]byte(`{"is_following":true,"new_follower_count":4}`))
	case "PUT /posts/1":
		w.Write([]byte(`{"message":"ok"}`))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeServer) requests() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.reqs...)
}

func execute(t *testing.T, f *fakeServer, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{
		"--server", f.srv.URL,
		"--config-dir", dir,
		"--log-level", "debug",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestMailListPrintsRows(t *testing.T) {
	f := newFakeServer(t)
	out, err := execute(t, f, t.TempDir(), "mail", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Inbox")
	require.Contains(t, out, "bob@x.com")
	require.Contains(t, out, "Lunch?")
	require.Contains(t, out, "Minutes")
}

func TestMailListEmptyMailbox(t *testing.T) {
	f := newFakeServer(t)
	out, err := execute(t, f, t.TempDir(), "mail", "list", "sent")
	require.NoError(t, err)
	require.Contains(t, out, "No emails here yet.")
}

func TestMailListRejectsUnknownMailbox(t *testing.T) {
	f := newFakeServer(t)
	_, err := execute(t, f, t.TempDir(), "mail", "list", "spam")
	require.ErrorContains(t, err, `invalid mailbox "spam"`)
	require.Empty(t, f.requests())
}

func TestMailShowMarksUnreadRead(t *testing.T) {
	f := newFakeServer(t)
	out, err := execute(t, f, t.TempDir(), "mail", "show", "7")
	require.NoError(t, err)
	require.Contains(t, out, "From: bob@x.com")
	require.Contains(t, out, "Noon at the usual place.")

	reqs := f.requests()
	require.Len(t, reqs, 2)
	require.Equal(t, "PUT", reqs[1].method)
	require.Equal(t, "/emails/7", reqs[1].path)
	require.Equal(t, true, reqs[1].body["read"])
}

func TestMailSendValidatesBeforeRequest(t *testing.T) {
	f := newFakeServer(t)
	_, err := execute(t, f, t.TempDir(), "mail", "send", "--to", " , ", "--subject", "hi")
	require.ErrorContains(t, err, "Please enter at least one recipient.")
	require.Empty(t, f.requests())
}

func TestMailSend(t *testing.T) {
	f := newFakeServer(t)
	out, err := execute(t, f, t.TempDir(), "mail", "send",
		"--to", " bob@x.com ", "--subject", "hi", "--body", "there")
	require.NoError(t, err)
	require.Equal(t, "Email sent.\n", out)

	reqs := f.requests()
	require.Len(t, reqs, 1)
	require.Equal(t, "bob@x.com", reqs[0].body["recipients"])
}

func TestMailSendApplicationError(t *testing.T) {
	f := newFakeServer(t)
	_, err := execute(t, f, t.TempDir(), "mail", "send", "--to", "nobody@x.com")
	require.Error(t, err)
	require.Equal(t, "User with email nobody@x.com does not exist.", api.UserMessage(err))
}

func TestMailArchiveUndo(t *testing.T) {
	f := newFakeServer(t)
	out, err := execute(t, f, t.TempDir(), "mail", "archive", "7", "--undo")
	require.NoError(t, err)
	require.Contains(t, out, "unarchived")
	require.Equal(t, false, f.requests()[0].body["archived"])
}

func TestParseIDRejectsGarbage(t *testing.T) {
	f := newFakeServer(t)
	_, err := execute(t, f, t.TempDir(), "mail", "show", "abc")
	require.ErrorContains(t, err, "want a positive integer")
	_, err = execute(t, f, t.TempDir(), "network", "like", "0")
	require.Error(t, err)
	require.Empty(t, f.requests())
}

func TestNetworkPosts(t *testing.T) {
	f := newFakeServer(t)
	out, err := execute(t, f, t.TempDir(), "--user", "ann", "network", "posts")
	require.NoError(t, err)
	require.Contains(t, out, "All Posts")
	require.Contains(t, out, "#1 ann")
	require.Contains(t, out, "hello world")
	require.Contains(t, out, "next: --page 2")
	require.Equal(t, "/posts?page=1", f.requests()[0].path)
}

func TestSessionCookiesReachMutations(t *testing.T) {
	f := newFakeServer(t)
	dir := t.TempDir()

	out, err := execute(t, f, dir, "session", "set", "--sessionid", "s3cret", "--csrftoken", "tok")
	require.NoError(t, err)
	require.Contains(t, out, "Session stored")

	out, err = execute(t, f, dir, "session", "show")
	require.NoError(t, err)
	require.Contains(t, out, "csrftoken")
	require.NotContains(t, out, "s3cret")

	out, err = execute(t, f, dir, "network", "like", "1")
	require.NoError(t, err)
	require.Equal(t, "Unlike (3 likes)\n", out)

	reqs := f.requests()
	require.Len(t, reqs, 1)
	require.Equal(t, "tok", reqs[0].csrf)

	_, err = execute(t, f, dir, "session", "clear")
	require.NoError(t, err)
	out, err = execute(t, f, dir, "session", "show")
	require.NoError(t, err)
	require.Contains(t, out, "No session stored")
}

func TestNetworkFollow(t *testing.T) {
	f := newFakeServer(t)
	out, err := execute(t, f, t.TempDir(), "network", "follow", "bob")
	require.NoError(t, err)
	require.Equal(t, "Following bob (4 followers)\n", out)
}

func TestNetworkEditValidates(t *testing.T) {
	f := newFakeServer(t)
	_, err := execute(t, f, t.TempDir(), "network", "edit", "1", "   ")
	require.Error(t, err)
	require.Empty(t, f.requests())

	out, err := execute(t, f, t.TempDir(), "network", "edit", "1", "new", "text")
	require.NoError(t, err)
	require.Contains(t, out, "Post 1 saved.")
	require.Equal(t, "new text", f.requests()[0].body["content"])
}

func TestLogFileWritten(t *testing.T) {
	f := newFakeServer(t)
	dir := t.TempDir()
	_, err := execute(t, f, dir, "mail", "list")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, logging.DefaultLogFilename))
	require.NoError(t, err)
	require.Contains(t, string(raw), "API")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("MAILNET_TEST_VALUE", "set")
	require.Equal(t, "set", envOr("MAILNET_TEST_VALUE", "default"))
	require.Equal(t, "default", envOr("MAILNET_TEST_UNSET", "default"))
}
