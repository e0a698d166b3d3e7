package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type AccountService struct {
	Users  UserRepo
	Events events.Publisher
}

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string
	Address  string
	City     string
	State    string
	Pincode  string
	// UniqueAddress also rejects a second account at the same address,
	// city, state and pincode.
	UniqueAddress bool
}

func (in RegisterInput) validate() error {
	var missing []string
	fields := []struct{ name, value string }{
		{"email", in.Email},
		{"username", in.Username},
		{"password", in.Password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields %s: %w", strings.Join(missing, ", "), ErrValidation)
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "account.register", "username", in.Username)

	if err := in.validate(); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return nil, err
	}

	if err := s.ensureFree(ctx, in); err != nil {
		if errors.Is(err, ErrConflict) {
			l.Warn("register_error", "status", 400, "reason", err.Error())
		} else {
			l.Error("register_error", "status", 500, "error", err)
		}
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: pwHash,
		Address:      in.Address,
		City:         in.City,
		State:        in.State,
		Pincode:      in.Pincode,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 400, "reason", "unique index rejected insert")
			return nil, fmt.Errorf("email or username already registered: %w", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	l.Info("user_registered", "status", 201, "user_id", user.ID)
	publish(ctx, s.Events, events.TopicUser, user.ID, "user_registered", map[string]any{
		"userId":   user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *AccountService) ensureFree(ctx context.Context, in RegisterInput) error {
	if err := s.taken(s.Users.FindUserByEmail(ctx, in.Email)); err != nil {
		return orConflict(err, ErrEmailTaken)
	}
	if err := s.taken(s.Users.FindUserByUsername(ctx, in.Username)); err != nil {
		return orConflict(err, ErrUsernameTaken)
	}
	if in.UniqueAddress {
		err := s.taken(s.Users.FindUserByAddress(ctx, in.Address, in.City, in.State, in.Pincode))
		if err != nil {
			return orConflict(err, ErrAddressTaken)
		}
	}
	return nil
}

var errTaken = errors.New("taken")

// taken turns a lookup result into errTaken when a record exists, nil when
// none does, and passes store failures through.
func (s *AccountService) taken(_ *models.User, err error) error {
	switch {
	case err == nil:
		return errTaken
	case errors.Is(err, repo.ErrNotFound):
		return nil
	default:
		return err
	}
}

func orConflict(err, conflict error) error {
	if errors.Is(err, errTaken) {
		return conflict
	}
	return fmt.Errorf("lookup user: %w", err)
}

// Authenticate returns the user matching username and password. The returned
// error is ErrUserNotFound or ErrInvalidCredentials for bad input.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "account.authenticate", "username", username)

	user, err := s.Users.FindUserByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		l.Warn("login_failed", "status", 404, "reason", "user not found")
		return nil, ErrUserNotFound
	}
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	publish(ctx, s.Events, events.TopicUser, user.ID, "user_logged_in", map[string]any{
		"userId":   user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
