// This file contains the GroupManager implementation, which is responsible for interacting with the
// MongoDB Group collection. Group membership changes are single $addToSet/$pull updates; the queue
// fan-out they may trigger is handled by the services layer, not here.

package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/upnext-app/go-server/internal/log"
)

type GroupManager struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewGroupManager creates a new instance of GroupManager.
func NewGroupManager(client *mongo.Client, logger *log.Logger) *GroupManager {
	db := client.Database("upnextdb")
	return &GroupManager{
		collection: db.Collection("Group"),
		logger:     logger,
	}
}

// Create inserts a new group with the creator as its first member.
func (gm *GroupManager) Create(ctx context.Context, name, creator string) (*Group, error) {
	g := &Group{
		ID:      uuid.NewString(),
		Name:    name,
		Creator: creator,
		Members: []string{creator},
	}
	if _, err := gm.collection.InsertOne(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetByID retrieves a group by its id. Returns ErrGroupNotFound if absent.
func (gm *GroupManager) GetByID(ctx context.Context, groupID string) (*Group, error) {
	var g Group
	err := gm.collection.FindOne(ctx, bson.M{"_id": groupID}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns all groups.
func (gm *GroupManager) List(ctx context.Context) ([]Group, error) {
	return gm.find(ctx, bson.M{})
}

// ListForUser returns all groups the username is a member of.
func (gm *GroupManager) ListForUser(ctx context.Context, username string) ([]Group, error) {
	return gm.find(ctx, bson.M{"members": username})
}

func (gm *GroupManager) find(ctx context.Context, filter bson.M) ([]Group, error) {
	cursor, err := gm.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []Group
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Update applies the given field updates and returns the updated group.
func (gm *GroupManager) Update(ctx context.Context, groupID string, updates bson.M) (*Group, error) {
	return gm.findOneAndUpdate(ctx, groupID, bson.M{"$set": updates})
}

// AddMember atomically adds the username to the group's member set.
func (gm *GroupManager) AddMember(ctx context.Context, groupID, username string) (*Group, error) {
	return gm.findOneAndUpdate(ctx, groupID, bson.M{"$addToSet": bson.M{"members": username}})
}

// RemoveMember atomically removes the username from the group's member set.
// The group itself persists with updated membership.
func (gm *GroupManager) RemoveMember(ctx context.Context, groupID, username string) (*Group, error) {
	return gm.findOneAndUpdate(ctx, groupID, bson.M{"$pull": bson.M{"members": username}})
}

// Delete removes the group document and returns it.
func (gm *GroupManager) Delete(ctx context.Context, groupID string) (*Group, error) {
	var g Group
	err := gm.collection.FindOneAndDelete(ctx, bson.M{"_id": groupID}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (gm *GroupManager) findOneAndUpdate(ctx context.Context, groupID string, update bson.M) (*Group, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var g Group
	err := gm.collection.FindOneAndUpdate(ctx, bson.M{"_id": groupID}, update, opts).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}
