// This file contains the UserManager implementation, which is responsible for interacting with the
// MongoDB User collection. The UserManager struct contains a pointer to the upnextdb.User MongoDB
// collection and a logger. It provides methods to create, get and update user data in the database.
// Interaction with users is by username or by ID; usernames are unique.

package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/upnext-app/go-server/internal/log"
)

type UserManager struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewUserManager creates a new instance of UserManager.
func NewUserManager(client *mongo.Client, logger *log.Logger) *UserManager {
	db := client.Database("upnextdb")
	return &UserManager{
		collection: db.Collection("User"),
		logger:     logger,
	}
}

// GenerateUser creates a new user document with the given username, password and profile
// fields, and inserts it into the database. Returns the User, nil if successful.
// Returns nil, ErrUsernameTaken if the username is already in use.
func (um *UserManager) GenerateUser(ctx context.Context, username, password, firstName, lastName, email string) (*User, error) {
	_, err := um.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Role:         RoleUser,
		DateJoined:   time.Now().UTC(),
		Followers:    []string{},
		Following:    []string{},
		Groups:       []string{},
		GroupInvites: []string{},
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}

	if _, err := um.collection.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user from the database based on the given ID.
func (um *UserManager) GetByID(ctx context.Context, userID string) (*User, error) {
	var u User
	err := um.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername retrieves a user from the database based on the given username.
func (um *UserManager) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := um.collection.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns all users.
func (um *UserManager) List(ctx context.Context) ([]User, error) {
	cursor, err := um.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the given field updates to the user document.
func (um *UserManager) Update(ctx context.Context, userID string, updates bson.M) (*User, error) {
	result, err := um.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": updates})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrUserNotFound
	}
	return um.GetByID(ctx, userID)
}

// Delete removes the user document and returns it.
func (um *UserManager) Delete(ctx context.Context, userID string) (*User, error) {
	var u User
	err := um.collection.FindOneAndDelete(ctx, bson.M{"_id": userID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// AddGroup adds a group id to the user's groups set.
func (um *UserManager) AddGroup(ctx context.Context, username, groupID string) error {
	return um.updateSet(ctx, username, "$addToSet", "groups", groupID)
}

// RemoveGroup removes a group id from the user's groups set.
func (um *UserManager) RemoveGroup(ctx context.Context, username, groupID string) error {
	return um.updateSet(ctx, username, "$pull", "groups", groupID)
}

// AddGroupInvite adds an invitation id to the user's pending invites.
func (um *UserManager) AddGroupInvite(ctx context.Context, username, invitationID string) error {
	return um.updateSet(ctx, username, "$addToSet", "groupInvites", invitationID)
}

// RemoveGroupInvite removes an invitation id from the user's pending invites.
func (um *UserManager) RemoveGroupInvite(ctx context.Context, username, invitationID string) error {
	return um.updateSet(ctx, username, "$pull", "groupInvites", invitationID)
}

func (um *UserManager) updateSet(ctx context.Context, username, op, field, value string) error {
	result, err := um.collection.UpdateOne(
		ctx,
		bson.M{"username": username},
		bson.M{op: bson.M{field: value}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
