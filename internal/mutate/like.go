package mutate

import (
	"strconv"

	"mailnet/internal/model"
)

// BeginLike flips the like flag and count locally, before the request is
// sent. The returned post is what should be displayed until ResolveLike.
func (c *Controller) BeginLike(p model.Post) (model.Post, Pending[model.Post]) {
	next := p
	next.Liked = !p.Liked
	if next.Liked {
		next.Likes++
	} else if next.Likes > 0 {
		next.Likes--
	}
	return next, begin(c, KindLike, "post "+strconv.FormatInt(p.ID, 10), p, next)
}

// ResolveLike reconciles a like toggle with the server's answer, which wins
// over the optimistic guess. On failure the post is either rolled back or
// left as guessed, depending on the controller's policy, and err is
// returned for the caller to surface. A response for a dropped mutation
// yields a StaleResponseError and the optimistic post.
func (c *Controller) ResolveLike(p Pending[model.Post], st model.LikeState,
	err error) (model.Post, error) {

	if !settle(c, p) {
		return p.After, Stale("like on %s", p.Key)
	}
	if err != nil {
		return failed(c, p, err), err
	}
	out := p.After
	out.Liked = st.Liked
	out.Likes = st.Count
	return out, nil
}

// BeginFollow flips the follow flag and follower count locally.
func (c *Controller) BeginFollow(author string, st model.FollowState) (model.FollowState, Pending[model.FollowState]) {
	next := st
	next.Following = !st.Following
	if next.Following {
		next.Followers++
	} else if next.Followers > 0 {
		next.Followers--
	}
	return next, begin(c, KindFollow, author, st, next)
}

// ResolveFollow reconciles a follow toggle like ResolveLike does.
func (c *Controller) ResolveFollow(p Pending[model.FollowState], st model.FollowState,
	err error) (model.FollowState, error) {

	if !settle(c, p) {
		return p.After, Stale("follow of %s", p.Key)
	}
	if err != nil {
		return failed(c, p, err), err
	}
	return st, nil
}
