// Command openwall runs one engine session against the configured remote
// store. The default action reconciles and prints the composed feed and
// derived views; subcommands apply optimistic mutations.
//
//	openwall feed [-mode all|following] [-topic tag] [-query text] [-viewer id]
//	openwall profile -user id
//	openwall post -user id -body text [-image path]
//	openwall delete-post -user id -post id
//	openwall comment -user id -post id -body text
//	openwall delete-comment -user id -post id -comment id
//	openwall like -user id -post id
//	openwall follow -user id -target id
//	openwall share -user id -post id [-comment text]
//	openwall signup -name n -username u -email e -password p
//	openwall login -email e -password p
//	openwall logout
//	openwall edit-profile -user id [-name n] [-username u] [-bio b] [-location l] [-website w] [-avatar path]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"openwall/internal/config"
	"openwall/internal/database"
	"openwall/internal/feed"
	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/observability"
	"openwall/internal/remote"
	"openwall/internal/service"
	"openwall/internal/syncer"
)

type app struct {
	cfg    *config.Config
	store  *localstore.Store
	writer *service.RemoteWriter
	syncer *syncer.Syncer

	posts    *service.PostService
	comments *service.CommentService
	follows  *service.FollowService
	users    *service.UserService
	images   *service.ImageService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "openwall-engine",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	remoteStore, err := remote.NewGormStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize remote store: %v", err)
	}

	ctx := context.Background()
	persister, cleanup, err := newPersister(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache persister: %v", err)
	}
	defer cleanup()

	store := localstore.NewStore(persister)
	store.Restore(ctx)

	writer := service.NewRemoteWriter(64)
	defer writer.Close()

	ids := models.NewIDGenerator(nil)
	a := &app{
		cfg:      cfg,
		store:    store,
		writer:   writer,
		syncer:   syncer.New(store, remoteStore),
		posts:    service.NewPostService(store, remoteStore, writer, ids),
		comments: service.NewCommentService(store, remoteStore, writer, ids),
		follows:  service.NewFollowService(store, remoteStore, writer),
		users:    service.NewUserService(store, remoteStore, writer, ids),
		images: service.NewImageService(service.ImageOptions{
			Format:      cfg.ImageFormat,
			MaxEdge:     cfg.ImageMaxEdge,
			JPEGQuality: cfg.ImageJPEGQuality,
			WebPQuality: cfg.ImageWebPQuality,
		}),
	}

	a.syncer.SyncAll(ctx)

	cmd := "feed"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	if err := a.run(ctx, cmd, args); err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}

	// every queued remote write lands before the process exits
	writer.Flush()
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "feed":
		return a.runFeed(args)
	case "profile":
		return a.runProfile(args)
	case "post":
		return a.runPost(ctx, args)
	case "delete-post":
		return a.runDeletePost(ctx, args)
	case "comment":
		return a.runComment(ctx, args)
	case "delete-comment":
		return a.runDeleteComment(ctx, args)
	case "like":
		return a.runLike(ctx, args)
	case "follow":
		return a.runFollow(ctx, args)
	case "share":
		return a.runShare(ctx, args)
	case "signup":
		return a.runSignup(ctx, args)
	case "login":
		return a.runLogin(ctx, args)
	case "logout":
		a.users.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "edit-profile":
		return a.runEditProfile(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) runFeed(args []string) error {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	mode := fs.String("mode", "all", "Feed mode: all or following")
	topic := fs.String("topic", "", "Filter by hashtag")
	query := fs.String("query", "", "Filter by search text")
	viewer := fs.String("viewer", "", "Viewer user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	viewerID := *viewer
	if viewerID == "" {
		if current, ok := a.store.CurrentUser(); ok {
			viewerID = current.ID
		}
	}

	posts := a.store.Posts()
	users := a.store.Users()

	composed := feed.Compose(posts, feed.Filter{
		Topic:     *topic,
		Query:     *query,
		Mode:      feed.Mode(*mode),
		ViewerID:  viewerID,
		Following: a.store.FollowingSet(viewerID),
	})

	fmt.Printf("Feed (%d posts)\n", len(composed))
	for _, p := range composed {
		fmt.Printf("  [%s] @%s: %s (%d likes)\n",
			time.UnixMilli(p.CreatedAt).Format(time.RFC3339), p.AuthorUsername, p.Body, p.Likes)
		for _, c := range a.store.CommentsForPost(p.ID) {
			fmt.Printf("      @%s: %s\n", c.AuthorUsername, c.Body)
		}
	}

	fmt.Println("\nPopular topics")
	for _, t := range feed.TopTopics(posts) {
		fmt.Printf("  #%s: %d likes across %d posts\n", t.Topic, t.TotalLikes, t.PostCount)
	}

	fmt.Println("\nPeople to follow")
	for _, u := range feed.SuggestedUsers(posts, users, viewerID) {
		fmt.Printf("  %s (@%s): %d likes across %d posts\n", u.Name, u.Username, u.TotalLikes, u.PostCount)
	}
	return nil
}

func (a *app) runProfile(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	userID := fs.String("user", "", "User id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, ok := a.store.UserByID(*userID)
	if !ok {
		return models.NewNotFoundError("User", *userID)
	}

	posts := a.store.Posts()
	postCount, totalLikes := feed.UserStats(posts, user.ID)

	fmt.Printf("%s (@%s)\n", user.Name, user.Username)
	if user.Bio != "" {
		fmt.Println(user.Bio)
	}
	fmt.Printf("%d posts, %d likes received\n", postCount, totalLikes)
	fmt.Printf("%d following, %d followers\n",
		len(a.store.FollowingIDs(user.ID)), len(a.store.FollowerIDs(user.ID)))

	if topics := feed.UserTopics(posts, user.ID); len(topics) > 0 {
		fmt.Println("\nTopics")
		for _, t := range topics {
			fmt.Printf("  #%s: %d likes across %d posts\n", t.Topic, t.TotalLikes, t.PostCount)
		}
	}
	return nil
}

func (a *app) runPost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	user := fs.String("user", "", "Author user id")
	body := fs.String("body", "", "Post body")
	imagePath := fs.String("image", "", "Path to an image to attach")
	visibility := fs.String("visibility", models.VisibilityPublic, "Public or Friends")
	if err := fs.Parse(args); err != nil {
		return err
	}

	imageDataURL, err := a.loadImage(*imagePath)
	if err != nil {
		return err
	}

	post, err := a.posts.CreatePost(ctx, service.CreatePostInput{
		AuthorID:     *user,
		Body:         *body,
		ImageDataURL: imageDataURL,
		Visibility:   *visibility,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created post %s\n", post.ID)
	return nil
}

func (a *app) runDeletePost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-post", flag.ExitOnError)
	user := fs.String("user", "", "User id")
	post := fs.String("post", "", "Post id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.posts.DeletePost(ctx, service.DeletePostInput{UserID: *user, PostID: *post}); err != nil {
		return err
	}
	fmt.Printf("Deleted post %s\n", *post)
	return nil
}

func (a *app) runComment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	user := fs.String("user", "", "Comment author user id")
	post := fs.String("post", "", "Post id")
	body := fs.String("body", "", "Comment body")
	if err := fs.Parse(args); err != nil {
		return err
	}

	comment, err := a.comments.AddComment(ctx, service.AddCommentInput{
		UserID: *user, PostID: *post, Body: *body,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added comment %s\n", comment.ID)
	return nil
}

func (a *app) runDeleteComment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-comment", flag.ExitOnError)
	user := fs.String("user", "", "User id")
	post := fs.String("post", "", "Post id")
	comment := fs.String("comment", "", "Comment id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.comments.DeleteComment(ctx, service.DeleteCommentInput{
		UserID: *user, PostID: *post, CommentID: *comment,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Deleted comment %s\n", *comment)
	return nil
}

func (a *app) runLike(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	user := fs.String("user", "", "User id")
	post := fs.String("post", "", "Post id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.posts.ToggleLike(ctx, *user, *post)
	if err != nil {
		return err
	}
	if res.Liked {
		fmt.Printf("Liked; post now has %d likes\n", res.Likes)
	} else {
		fmt.Printf("Unliked; post now has %d likes\n", res.Likes)
	}
	return nil
}

func (a *app) runFollow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("follow", flag.ExitOnError)
	user := fs.String("user", "", "Follower user id")
	target := fs.String("target", "", "Target user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	following, err := a.follows.ToggleFollow(ctx, *user, *target)
	if err != nil {
		return err
	}
	if following {
		fmt.Printf("Now following %s\n", *target)
	} else {
		fmt.Printf("Unfollowed %s\n", *target)
	}
	return nil
}

func (a *app) runShare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("share", flag.ExitOnError)
	user := fs.String("user", "", "Sharer user id")
	post := fs.String("post", "", "Post id to share")
	comment := fs.String("comment", "", "Optional comment on the share")
	if err := fs.Parse(args); err != nil {
		return err
	}

	shared, err := a.posts.SharePost(ctx, service.SharePostInput{
		UserID: *user, PostID: *post, Comment: *comment,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Shared as post %s\n", shared.ID)
	return nil
}

func (a *app) runSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "Display name")
	username := fs.String("username", "", "Handle")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.users.Signup(ctx, service.SignupInput{
		Name: *name, Username: *username, Email: *email, Password: *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Welcome @%s (id %s)\n", user.Username, user.ID)
	return nil
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.users.Login(ctx, service.LoginInput{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as @%s\n", user.Username)
	return nil
}

func (a *app) runEditProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit-profile", flag.ExitOnError)
	user := fs.String("user", "", "User id")
	name := fs.String("name", "", "New display name (blank keeps current)")
	username := fs.String("username", "", "New handle (blank keeps current)")
	bio := fs.String("bio", "", "Bio text")
	location := fs.String("location", "", "Location")
	website := fs.String("website", "", "Website")
	avatarPath := fs.String("avatar", "", "Path to a new avatar image")
	if err := fs.Parse(args); err != nil {
		return err
	}

	update := models.ProfileUpdate{
		Name:     name,
		Username: username,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bio":
			update.Bio = bio
		case "location":
			update.Location = location
		case "website":
			update.Website = website
		}
	})

	if *avatarPath != "" {
		avatar, err := a.loadImage(*avatarPath)
		if err != nil {
			return err
		}
		update.AvatarDataURL = &avatar
	}

	updated, err := a.users.EditProfile(ctx, service.EditProfileInput{
		UserID: *user, Update: update,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated for @%s\n", updated.Username)
	return nil
}

func (a *app) loadImage(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return a.images.NormalizeToDataURL(raw)
}

func newPersister(ctx context.Context, cfg *config.Config) (localstore.Persister, func(), error) {
	switch cfg.CachePersister {
	case "redis":
		p, err := localstore.NewRedisPersister(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil
	case "none":
		return nil, func() {}, nil
	default:
		p, err := localstore.NewFilePersister(cfg.CachePath)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {}, nil
	}
}
