package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mailnet/internal/model"
	"mailnet/internal/mutate"
	"mailnet/internal/render"
	"mailnet/internal/tui"
	"mailnet/internal/view"
)

func newNetworkCmd(app *App) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Browse and post to the feed (interactive without a subcommand)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page <= 0 {
				_, last, err := app.store.LastList(cmd.Context(), app.server())
				if err != nil {
					log.Warnf("load last page: %v", err)
				}
				page = last
			}
			return tui.Run(tui.NewFeedModel(app.client, page, app.uiOptions()))
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Feed page to open (default: last viewed)")

	cmd.AddCommand(newNetworkPostsCmd(app))
	cmd.AddCommand(newNetworkPostCmd(app))
	cmd.AddCommand(newNetworkLikeCmd(app))
	cmd.AddCommand(newNetworkEditCmd(app))
	cmd.AddCommand(newNetworkFollowCmd(app))
	return cmd
}

func newNetworkPostsCmd(app *App) *cobra.Command {
	var (
		page   int
		author string
	)
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Print a page of the feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return errInvalidArg("page", strconv.Itoa(page), "want 1 or more")
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			var (
				p   model.PostPage
				err error
			)
			if author != "" {
				p, err = app.client.UserPosts(ctx, author, page)
			} else {
				p, err = app.client.Posts(ctx, page)
			}
			if err != nil {
				return err
			}
			k := view.ListKey{Author: author, Page: page}
			fmt.Fprint(cmd.OutOrStdout(), tui.FeedText(k, p, app.User, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().StringVar(&author, "author", "", "Only posts by this user")
	return cmd
}

func newNetworkPostCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "post <content...>",
		Short: "Publish a new post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			if err := mutate.CreatePost(ctx, app.client, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Posted.")
			return nil
		},
	}
}

func newNetworkLikeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Toggle your like on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			st, err := app.client.ToggleLike(ctx, id)
			if err != nil {
				return err
			}
			// The button shows the action now available, as in the app.
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d likes)\n", render.LikeLabel(st.Liked), st.Count)
			return nil
		},
	}
}

func newNetworkEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <post-id> <content...>",
		Short: "Replace the content of one of your posts",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			content := strings.Join(args[1:], " ")
			if err := mutate.ValidatePost(content); err != nil {
				return err
			}
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			buf := mutate.EditBuffer{PostID: id, Content: content}
			if err := mutate.SaveEdit(ctx, app.client, buf); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %d saved.\n", id)
			return nil
		},
	}
}

func newNetworkFollowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "follow <username>",
		Short: "Toggle following a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.requestContext(cmd)
			defer cancel()
			st, err := app.client.ToggleFollow(ctx, args[0])
			if err != nil {
				return err
			}
			state := "Not following"
			if st.Following {
				state = "Following"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d followers)\n", state, args[0], st.Followers)
			return nil
		},
	}
}
