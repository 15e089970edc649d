// This file contains the UserService implementation, the orchestration around user lifecycle.
// Signing a user up creates their six personal queues; deleting a user deletes them. The six
// queue operations are independent of the user write and of each other: a failure partway leaves
// prior steps in place, and compensating cleanup is the caller's responsibility.

package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
	"github.com/upnext-app/go-server/internal/models/user"
)

// UserStore is the user collection contract the services need. *user.UserManager satisfies it.
type UserStore interface {
	GenerateUser(ctx context.Context, username, password, firstName, lastName, email string) (*user.User, error)
	GetByID(ctx context.Context, userID string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, userID string, updates bson.M) (*user.User, error)
	Delete(ctx context.Context, userID string) (*user.User, error)
	AddGroup(ctx context.Context, username, groupID string) error
	RemoveGroup(ctx context.Context, username, groupID string) error
	AddGroupInvite(ctx context.Context, username, invitationID string) error
	RemoveGroupInvite(ctx context.Context, username, invitationID string) error
}

type UserService struct {
	users  UserStore
	queues *QueueService
	logger *log.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, queues *QueueService, logger *log.Logger) *UserService {
	return &UserService{
		users:  users,
		queues: queues,
		logger: logger,
	}
}

// SignUp creates a new user and their six personal queues (one per media type).
// Queue creation failures are reported but do not undo the user write or the
// queues already created.
func (s *UserService) SignUp(ctx context.Context, username, password, firstName, lastName, email string) (*user.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	u, err := s.users.GenerateUser(ctx, username, password, firstName, lastName, email)
	if err != nil {
		return nil, err
	}

	for _, t := range media.AllTypes {
		if _, err := s.queues.CreateQueue(ctx, t, []string{u.Username}, ""); err != nil {
			return nil, fmt.Errorf("error when creating user and their queues: %w", err)
		}
	}

	s.logger.Infof("User %s signed up with personal queues", u.Username)
	return u, nil
}

// Login checks the given credentials and returns the user.
// Returns user.ErrBadCredentials on any mismatch, without revealing which field was wrong.
func (s *UserService) Login(ctx context.Context, username, password string) (*user.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrBadCredentials
		}
		return nil, err
	}
	if err := u.CheckPassword(password); err != nil {
		return nil, user.ErrBadCredentials
	}
	return u, nil
}

// GetUser retrieves a user by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.users.List(ctx)
}

// UpdateUser applies profile field updates to the user.
func (s *UserService) UpdateUser(ctx context.Context, userID string, updates bson.M) (*user.User, error) {
	return s.users.Update(ctx, userID, updates)
}

// DeleteUser removes the user and then their six personal queues. Partial failure
// leaves the user gone and some queues behind; each deletion error is reported.
func (s *UserService) DeleteUser(ctx context.Context, userID string) (*user.User, error) {
	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, t := range media.AllTypes {
		if _, err := s.queues.DeleteQueuesByMediaTypeAndUsernameAndGroup(ctx, t, deleted.Username, ""); err != nil {
			return nil, fmt.Errorf("error when deleting user and their queues: %w", err)
		}
	}

	s.logger.Infof("User %s deleted with personal queues", deleted.Username)
	return deleted, nil
}
