package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mailnet/internal/model"
)

// Posts fetches one page of the global feed.
func (c *Client) Posts(ctx context.Context, page int) (model.PostPage, error) {
	path := "/posts?page=" + strconv.Itoa(page)
	p, err := decode[model.PostPage](http.MethodGet, path,
		c.Request(ctx, http.MethodGet, path, nil))
	if err != nil {
		return model.PostPage{}, fmt.Errorf("load posts page %d: %w", page, err)
	}
	return p, nil
}

// UserPosts fetches one page of a single author's posts.
func (c *Client) UserPosts(ctx context.Context, username string, page int) (model.PostPage, error) {
	path := "/users/" + url.PathEscape(username) + "/posts?page=" + strconv.Itoa(page)
	p, err := decode[model.PostPage](http.MethodGet, path,
		c.Request(ctx, http.MethodGet, path, nil))
	if err != nil {
		return model.PostPage{}, fmt.Errorf("load posts of %s page %d: %w", username, page, err)
	}
	return p, nil
}

// CreatePost publishes a new post. The server answers with its index page,
// so only the status matters.
func (c *Client) CreatePost(ctx context.Context, content string) error {
	_, err := c.Request(ctx, http.MethodPost, "/",
		map[string]string{"newPost": content}, WithCSRF()).Unpack()
	if err != nil && !IsKind(err, KindDecode) {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// ToggleLike flips the current user's like and returns the server's state.
func (c *Client) ToggleLike(ctx context.Context, id int64) (model.LikeState, error) {
	path := postPath(id) + "/like"
	s, err := decode[model.LikeState](http.MethodPost, path,
		c.Request(ctx, http.MethodPost, path, nil, WithCSRF()))
	if err != nil {
		return model.LikeState{}, fmt.Errorf("toggle like on post %d: %w", id, err)
	}
	return s, nil
}

// EditPost replaces a post's content. Success is signalled by status alone.
func (c *Client) EditPost(ctx context.Context, id int64, content string) error {
	_, err := c.Request(ctx, http.MethodPut, postPath(id),
		map[string]string{"content": content}, WithCSRF()).Unpack()
	if err != nil && !IsKind(err, KindDecode) {
		return fmt.Errorf("edit post %d: %w", id, err)
	}
	return nil
}

// ToggleFollow follows or unfollows username.
func (c *Client) ToggleFollow(ctx context.Context, username string) (model.FollowState, error) {
	path := "/follow/" + url.PathEscape(username)
	s, err := decode[model.FollowState](http.MethodPost, path,
		c.Request(ctx, http.MethodPost, path, nil, WithCSRF()))
	if err != nil {
		return model.FollowState{}, fmt.Errorf("toggle follow of %s: %w", username, err)
	}
	return s, nil
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

// ProfileURL is the browser page of username's profile.
func (c *Client) ProfileURL(username string) string {
	return c.base + "/user/" + url.PathEscape(username)
}
