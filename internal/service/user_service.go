package service

import (
	"context"
	"strings"

	"openwall/internal/localstore"
	"openwall/internal/models"
	"openwall/internal/observability"
	"openwall/internal/remote"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	store  *localstore.Store
	remote *remote.Store
	writer *RemoteWriter
	ids    *models.IDGenerator
	log    *observability.MutationLogger
}

type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type EditProfileInput struct {
	UserID string
	Update models.ProfileUpdate
}

func NewUserService(store *localstore.Store, rs *remote.Store, writer *RemoteWriter, ids *models.IDGenerator) *UserService {
	return &UserService{
		store:  store,
		remote: rs,
		writer: writer,
		ids:    ids,
		log:    observability.NewMutationLogger(),
	}
}

// Signup creates an account. Unlike post and comment writes, account
// creation is synchronous against the remote store: a user record that only
// exists locally cannot be logged into from anywhere else, so a failed
// remote write fails the signup.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	span, ctx := observability.TraceMutation(ctx, "signup")
	defer span.End()

	name := strings.TrimSpace(in.Name)
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)

	if name == "" || username == "" || email == "" || password == "" {
		err := models.NewValidationError("Name, username, email and password are required")
		s.reject(ctx, "signup", err)
		return nil, err
	}

	existing, err := s.remote.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(existing) > 0 {
		err := models.NewValidationError("An account with this email already exists")
		s.reject(ctx, "signup", err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	id, createdAt := s.ids.Next()
	user := models.User{
		ID:        id,
		Name:      name,
		Username:  username,
		Email:     email,
		CreatedAt: createdAt,
	}

	rec := remote.UserRecordFromModel(user)
	rec.PasswordHash = string(hash)
	if err := s.remote.Users.Put(ctx, rec); err != nil {
		return nil, models.NewInternalError(err)
	}

	s.store.PutUser(ctx, user)
	s.store.SetCurrentUser(ctx, user)
	s.applied(ctx, "signup", map[string]interface{}{"user_id": user.ID})

	return &user, nil
}

// Login verifies credentials against the remote store and installs the
// account as the session user.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	span, ctx := observability.TraceMutation(ctx, "login")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	password := strings.TrimSpace(in.Password)
	if email == "" || password == "" {
		err := models.NewValidationError("Email and password are required")
		s.reject(ctx, "login", err)
		return nil, err
	}

	matches, err := s.remote.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(matches) == 0 {
		err := models.NewValidationError("Invalid email or password")
		s.reject(ctx, "login", err)
		return nil, err
	}

	rec := matches[0]
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		err := models.NewValidationError("Invalid email or password")
		s.reject(ctx, "login", err)
		return nil, err
	}

	user := rec.ToModel()
	s.store.PutUser(ctx, user)
	s.store.SetCurrentUser(ctx, user)
	s.applied(ctx, "login", map[string]interface{}{"user_id": user.ID})

	return &user, nil
}

// Logout clears the session user. The cache itself is untouched.
func (s *UserService) Logout(ctx context.Context) {
	s.store.ClearCurrentUser(ctx)
	s.applied(ctx, "logout", nil)
}

// EditProfile merges the update into the cached user, fans the new display
// fields out over the user's posts, and queues the remote write. Name and
// username never go blank: empty values for them keep the previous value,
// while bio, location and website may be cleared.
func (s *UserService) EditProfile(ctx context.Context, in EditProfileInput) (*models.User, error) {
	span, ctx := observability.TraceMutation(ctx, "edit_profile")
	defer span.End()

	user, ok := s.store.UpdateUserProfile(ctx, in.UserID, in.Update)
	if !ok {
		err := models.NewNotFoundError("User", in.UserID)
		s.reject(ctx, "edit_profile", err)
		return nil, err
	}
	s.applied(ctx, "edit_profile", map[string]interface{}{"user_id": user.ID})

	userID := user.ID
	merged := remote.UserRecordFromModel(user)
	s.writer.Enqueue(ctx, "users", "put", func(ctx context.Context) error {
		// Preserve the credential hash; the cache never carries it.
		if existing, err := s.remote.Users.Get(ctx, userID); err == nil && existing != nil {
			merged.PasswordHash = existing.PasswordHash
		}
		return s.remote.Users.Put(ctx, merged)
	})

	return &user, nil
}

func (s *UserService) applied(ctx context.Context, kind string, fields map[string]interface{}) {
	s.log.LogApplied(ctx, kind, fields)
	observability.MutationsApplied.WithLabelValues(kind).Inc()
}

func (s *UserService) reject(ctx context.Context, kind string, err error) {
	s.log.LogRejected(ctx, kind, err)
	observability.MutationsRejected.WithLabelValues(kind).Inc()
}
