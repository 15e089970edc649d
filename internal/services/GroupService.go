// This file contains the GroupService implementation, the orchestration around group and invitation
// lifecycle. Creating a group creates its six shared queues; deleting a group deletes them along
// with the group's invitations; joining (by accepting an invitation) and leaving fan the membership
// change out across the six queues. None of these multi-step flows is transactional: each step is
// reported, nothing is rolled back.

package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/group"
	"github.com/upnext-app/go-server/internal/models/invitation"
	"github.com/upnext-app/go-server/internal/models/media"
)

// GroupStore is the group collection contract the service needs. *group.GroupManager satisfies it.
type GroupStore interface {
	Create(ctx context.Context, name, creator string) (*group.Group, error)
	GetByID(ctx context.Context, groupID string) (*group.Group, error)
	List(ctx context.Context) ([]group.Group, error)
	ListForUser(ctx context.Context, username string) ([]group.Group, error)
	Update(ctx context.Context, groupID string, updates bson.M) (*group.Group, error)
	AddMember(ctx context.Context, groupID, username string) (*group.Group, error)
	RemoveMember(ctx context.Context, groupID, username string) (*group.Group, error)
	Delete(ctx context.Context, groupID string) (*group.Group, error)
}

// InvitationStore is the invitation collection contract. *invitation.InvitationManager satisfies it.
type InvitationStore interface {
	Create(ctx context.Context, groupID, invitedBy, invitedUser string) (*invitation.Invitation, error)
	GetByID(ctx context.Context, invitationID string) (*invitation.Invitation, error)
	PendingForUser(ctx context.Context, username string) ([]invitation.Invitation, error)
	PendingForGroup(ctx context.Context, groupID string) ([]invitation.Invitation, error)
	UpdateStatus(ctx context.Context, invitationID, status string) (*invitation.Invitation, error)
	Delete(ctx context.Context, invitationID string) (*invitation.Invitation, error)
	DeleteForGroup(ctx context.Context, groupID string) (int64, error)
}

type GroupService struct {
	groups      GroupStore
	users       UserStore
	invitations InvitationStore
	queues      *QueueService
	logger      *log.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(groups GroupStore, users UserStore, invitations InvitationStore, queues *QueueService, logger *log.Logger) *GroupService {
	return &GroupService{
		groups:      groups,
		users:       users,
		invitations: invitations,
		queues:      queues,
		logger:      logger,
	}
}

// CreateGroup creates a group with the creator as its first member, records the
// membership on the creator's user document, and creates the group's six shared
// queues. A queue-creation failure partway leaves the group and earlier queues in
// place; the error names the failed type.
func (s *GroupService) CreateGroup(ctx context.Context, name, creator string) (*group.Group, error) {
	if name == "" || creator == "" {
		return nil, fmt.Errorf("%w: group name and creator are required", ErrInvalidInput)
	}

	g, err := s.groups.Create(ctx, name, creator)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddGroup(ctx, creator, g.ID); err != nil {
		return nil, fmt.Errorf("failed to record group membership for %s: %w", creator, err)
	}

	for _, t := range media.AllTypes {
		if _, err := s.queues.CreateQueue(ctx, t, append([]string{}, g.Members...), g.ID); err != nil {
			return nil, fmt.Errorf("failed to create group and corresponding queues: %w", err)
		}
	}

	s.logger.Infof("Group %s created by %s with shared queues", g.ID, creator)
	return g, nil
}

// GetGroup retrieves a group by id.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*group.Group, error) {
	return s.groups.GetByID(ctx, groupID)
}

// ListGroups returns all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]group.Group, error) {
	return s.groups.List(ctx)
}

// ListGroupsForUser returns the groups the username is a member of.
func (s *GroupService) ListGroupsForUser(ctx context.Context, username string) ([]group.Group, error) {
	return s.groups.ListForUser(ctx, username)
}

// UpdateGroup applies field updates to the group.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID string, updates bson.M) (*group.Group, error) {
	return s.groups.Update(ctx, groupID, updates)
}

// DeleteGroup removes the group, its six shared queues, its invitations, and the
// membership entry on each member's user document, in that order. The queues'
// media counters are not reconciled (see QueueService).
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) (*group.Group, error) {
	deleted, err := s.groups.Delete(ctx, groupID)
	if err != nil {
		return nil, err
	}

	for _, t := range media.AllTypes {
		if _, err := s.queues.DeleteQueuesByMediaTypeAndGroup(ctx, t, deleted.ID); err != nil {
			return nil, fmt.Errorf("failed to delete associated queues: %w", err)
		}
	}

	if _, err := s.invitations.DeleteForGroup(ctx, deleted.ID); err != nil {
		return nil, fmt.Errorf("failed to delete invitations for group %s: %w", deleted.ID, err)
	}

	for _, member := range deleted.Members {
		if err := s.users.RemoveGroup(ctx, member, deleted.ID); err != nil {
			return nil, fmt.Errorf("failed to remove group from member %s: %w", member, err)
		}
	}

	s.logger.Infof("Group %s deleted with shared queues", deleted.ID)
	return deleted, nil
}

// LeaveGroup removes the username from the group's member set, the user's group
// list, and the users set of each of the group's six queues. The group and its
// queues persist with updated membership.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID, username string) (*group.Group, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrInvalidInput)
	}

	g, err := s.groups.RemoveMember(ctx, groupID, username)
	if err != nil {
		return nil, err
	}

	if err := s.users.RemoveGroup(ctx, username, groupID); err != nil {
		return nil, err
	}

	results, err := s.queues.RemoveUserFromAllGroupQueues(ctx, username, groupID)
	if err != nil {
		return nil, err
	}
	for t, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("failed to remove %s from the group's %s queue: %w", username, t, r.Err)
		}
	}

	return g, nil
}

// SendInvitation creates a pending invitation and records it on the invited user's
// document. Duplicate invitations (same group, inviter and invitee) are rejected.
func (s *GroupService) SendInvitation(ctx context.Context, groupID, invitedBy, invitedUser string) (*invitation.Invitation, error) {
	if groupID == "" || invitedBy == "" || invitedUser == "" {
		return nil, fmt.Errorf("%w: group, inviter and invitee are required", ErrInvalidInput)
	}

	inv, err := s.invitations.Create(ctx, groupID, invitedBy, invitedUser)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddGroupInvite(ctx, invitedUser, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

// PendingInvitationsForUser returns the pending invitations addressed to the username.
func (s *GroupService) PendingInvitationsForUser(ctx context.Context, username string) ([]invitation.Invitation, error) {
	return s.invitations.PendingForUser(ctx, username)
}

// PendingInvitationsForGroup returns the pending invitations sent for the group.
func (s *GroupService) PendingInvitationsForGroup(ctx context.Context, groupID string) ([]invitation.Invitation, error) {
	return s.invitations.PendingForGroup(ctx, groupID)
}

// RespondToInvitation applies the invited user's decision.
//
// Accepting records the group on the user document, adds the user to the group's
// member set, and fans the membership out across the group's six queues; each
// fan-out sub-result is checked and the first failure reported (no rollback of
// the earlier steps). Declining deletes the invitation.
func (s *GroupService) RespondToInvitation(ctx context.Context, invitationID, status string) (*invitation.Invitation, error) {
	if status != invitation.StatusAccepted && status != invitation.StatusDeclined {
		return nil, fmt.Errorf("%w: status must be %s or %s", ErrInvalidInput, invitation.StatusAccepted, invitation.StatusDeclined)
	}

	inv, err := s.invitations.UpdateStatus(ctx, invitationID, status)
	if err != nil {
		return nil, err
	}

	if err := s.users.RemoveGroupInvite(ctx, inv.InvitedUser, inv.ID); err != nil {
		return nil, err
	}

	switch status {
	case invitation.StatusAccepted:
		if err := s.users.AddGroup(ctx, inv.InvitedUser, inv.Group); err != nil {
			return nil, err
		}
		if _, err := s.groups.AddMember(ctx, inv.Group, inv.InvitedUser); err != nil {
			return nil, err
		}

		results, err := s.queues.AddUserToAllGroupQueues(ctx, inv.InvitedUser, inv.Group)
		if err != nil {
			return nil, err
		}
		for t, r := range results {
			if r.Err != nil {
				return nil, fmt.Errorf("failed to add %s to the group's %s queue: %w", inv.InvitedUser, t, r.Err)
			}
		}
	case invitation.StatusDeclined:
		if _, err := s.invitations.Delete(ctx, inv.ID); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// DeleteInvitation removes a sent invitation and clears it from the invited user's
// pending invites.
func (s *GroupService) DeleteInvitation(ctx context.Context, invitationID string) (*invitation.Invitation, error) {
	inv, err := s.invitations.Delete(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if err := s.users.RemoveGroupInvite(ctx, inv.InvitedUser, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}
