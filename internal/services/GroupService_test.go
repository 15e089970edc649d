package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/upnext-app/go-server/internal/models/group"
	"github.com/upnext-app/go-server/internal/models/invitation"
	"github.com/upnext-app/go-server/internal/models/media"
	"github.com/upnext-app/go-server/internal/models/queue"
	"github.com/upnext-app/go-server/internal/models/user"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*user.User // keyed by username
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*user.User)}
}

func (f *fakeUserStore) GenerateUser(_ context.Context, username, password, firstName, lastName, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; ok {
		return nil, user.ErrUsernameTaken
	}
	u := &user.User{
		ID:           "u-" + username,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Role:         user.RoleUser,
		Followers:    []string{},
		Following:    []string{},
		Groups:       []string{},
		GroupInvites: []string{},
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	f.users[username] = u
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, userID string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []user.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, userID string, _ bson.M) (*user.User, error) {
	return f.GetByID(context.Background(), userID)
}

func (f *fakeUserStore) Delete(_ context.Context, userID string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for username, u := range f.users {
		if u.ID == userID {
			delete(f.users, username)
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserStore) updateSet(username string, add bool, field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return user.ErrUserNotFound
	}
	target := &u.Groups
	if field == "groupInvites" {
		target = &u.GroupInvites
	}
	if add {
		if !slices.Contains(*target, value) {
			*target = append(*target, value)
		}
	} else {
		*target = slices.DeleteFunc(*target, func(v string) bool { return v == value })
	}
	return nil
}

func (f *fakeUserStore) AddGroup(_ context.Context, username, groupID string) error {
	return f.updateSet(username, true, "groups", groupID)
}

func (f *fakeUserStore) RemoveGroup(_ context.Context, username, groupID string) error {
	return f.updateSet(username, false, "groups", groupID)
}

func (f *fakeUserStore) AddGroupInvite(_ context.Context, username, invitationID string) error {
	return f.updateSet(username, true, "groupInvites", invitationID)
}

func (f *fakeUserStore) RemoveGroupInvite(_ context.Context, username, invitationID string) error {
	return f.updateSet(username, false, "groupInvites", invitationID)
}

type fakeGroupStore struct {
	mu     sync.Mutex
	next   int
	groups map[string]*group.Group
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{groups: make(map[string]*group.Group)}
}

func (f *fakeGroupStore) Create(_ context.Context, name, creator string) (*group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	g := &group.Group{
		ID:      fmt.Sprintf("g-%d", f.next),
		Name:    name,
		Creator: creator,
		Members: []string{creator},
	}
	f.groups[g.ID] = g
	return g, nil
}

func (f *fakeGroupStore) GetByID(_ context.Context, groupID string) (*group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	return g, nil
}

func (f *fakeGroupStore) List(_ context.Context) ([]group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []group.Group
	for _, g := range f.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeGroupStore) ListForUser(_ context.Context, username string) ([]group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []group.Group
	for _, g := range f.groups {
		if slices.Contains(g.Members, username) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGroupStore) Update(_ context.Context, groupID string, _ bson.M) (*group.Group, error) {
	return f.GetByID(context.Background(), groupID)
}

func (f *fakeGroupStore) AddMember(_ context.Context, groupID, username string) (*group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	if !slices.Contains(g.Members, username) {
		g.Members = append(g.Members, username)
	}
	return g, nil
}

func (f *fakeGroupStore) RemoveMember(_ context.Context, groupID, username string) (*group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	g.Members = slices.DeleteFunc(g.Members, func(m string) bool { return m == username })
	return g, nil
}

func (f *fakeGroupStore) Delete(_ context.Context, groupID string) (*group.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	delete(f.groups, groupID)
	return g, nil
}

type fakeInvitationStore struct {
	mu          sync.Mutex
	next        int
	invitations map[string]*invitation.Invitation
}

func newFakeInvitationStore() *fakeInvitationStore {
	return &fakeInvitationStore{invitations: make(map[string]*invitation.Invitation)}
}

func (f *fakeInvitationStore) Create(_ context.Context, groupID, invitedBy, invitedUser string) (*invitation.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.Group == groupID && inv.InvitedBy == invitedBy && inv.InvitedUser == invitedUser {
			return nil, invitation.ErrInvitationExists
		}
	}
	f.next++
	inv := &invitation.Invitation{
		ID:          fmt.Sprintf("inv-%d", f.next),
		Group:       groupID,
		InvitedBy:   invitedBy,
		InvitedUser: invitedUser,
		Status:      invitation.StatusPending,
	}
	f.invitations[inv.ID] = inv
	return inv, nil
}

func (f *fakeInvitationStore) GetByID(_ context.Context, invitationID string) (*invitation.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[invitationID]
	if !ok {
		return nil, invitation.ErrInvitationNotFound
	}
	return inv, nil
}

func (f *fakeInvitationStore) PendingForUser(_ context.Context, username string) ([]invitation.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []invitation.Invitation
	for _, inv := range f.invitations {
		if inv.InvitedUser == username && inv.Status == invitation.StatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationStore) PendingForGroup(_ context.Context, groupID string) ([]invitation.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []invitation.Invitation
	for _, inv := range f.invitations {
		if inv.Group == groupID && inv.Status == invitation.StatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationStore) UpdateStatus(_ context.Context, invitationID, status string) (*invitation.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[invitationID]
	if !ok {
		return nil, invitation.ErrInvitationNotFound
	}
	inv.Status = status
	return inv, nil
}

func (f *fakeInvitationStore) Delete(_ context.Context, invitationID string) (*invitation.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[invitationID]
	if !ok {
		return nil, invitation.ErrInvitationNotFound
	}
	delete(f.invitations, invitationID)
	return inv, nil
}

func (f *fakeInvitationStore) DeleteForGroup(_ context.Context, groupID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, inv := range f.invitations {
		if inv.Group == groupID {
			delete(f.invitations, id)
			count++
		}
	}
	return count, nil
}

type testStack struct {
	users       *UserService
	groups      *GroupService
	queueSvc    *QueueService
	userStore   *fakeUserStore
	groupStore  *fakeGroupStore
	inviteStore *fakeInvitationStore
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	queueSvc, _, _ := newTestQueueService(t)
	userStore := newFakeUserStore()
	groupStore := newFakeGroupStore()
	inviteStore := newFakeInvitationStore()
	return &testStack{
		users:       NewUserService(userStore, queueSvc, queueSvc.logger),
		groups:      NewGroupService(groupStore, userStore, inviteStore, queueSvc, queueSvc.logger),
		queueSvc:    queueSvc,
		userStore:   userStore,
		groupStore:  groupStore,
		inviteStore: inviteStore,
	}
}

func TestSignUpCreatesSixPersonalQueues(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	u, err := stack.users.SignUp(ctx, "alice", "s3cret", "Alice", "Smith", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.Empty(t, u.Groups)

	for _, mt := range media.AllTypes {
		q, err := stack.queueSvc.GetQueue(ctx, mt, "alice", "")
		require.NoErrorf(t, err, "%s queue missing after sign-up", mt)
		assert.Equal(t, []string{"alice"}, q.Users)
		assert.Empty(t, q.Group)
	}
}

func TestSignUpRejectsTakenUsername(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.users.SignUp(ctx, "alice", "s3cret", "", "", "")
	require.NoError(t, err)

	_, err = stack.users.SignUp(ctx, "alice", "other", "", "", "")
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.users.SignUp(ctx, "alice", "s3cret", "", "", "")
	require.NoError(t, err)

	u, err := stack.users.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// Both a wrong password and an unknown user yield the same opaque error.
	_, err = stack.users.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, user.ErrBadCredentials)
	_, err = stack.users.Login(ctx, "mallory", "s3cret")
	assert.ErrorIs(t, err, user.ErrBadCredentials)
}

func TestDeleteUserRemovesPersonalQueues(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	u, err := stack.users.SignUp(ctx, "alice", "s3cret", "", "", "")
	require.NoError(t, err)

	_, err = stack.users.DeleteUser(ctx, u.ID)
	require.NoError(t, err)

	for _, mt := range media.AllTypes {
		_, err := stack.queueSvc.GetQueue(ctx, mt, "alice", "")
		assert.ErrorIs(t, err, queue.ErrQueueNotFound)
	}
	_, err = stack.userStore.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestCreateGroupCreatesSharedQueues(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.users.SignUp(ctx, "alice", "s3cret", "", "", "")
	require.NoError(t, err)

	g, err := stack.groups.CreateGroup(ctx, "movie night", "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, g.Members)

	creator, err := stack.userStore.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, creator.Groups, g.ID)

	for _, mt := range media.AllTypes {
		q, err := stack.queueSvc.GetQueue(ctx, mt, "alice", g.ID)
		require.NoErrorf(t, err, "%s queue missing for group", mt)
		assert.Equal(t, g.ID, q.Group)
	}
}

func TestDeleteGroupCleansUp(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		_, err := stack.users.SignUp(ctx, name, "s3cret", "", "", "")
		require.NoError(t, err)
	}
	g, err := stack.groups.CreateGroup(ctx, "movie night", "alice")
	require.NoError(t, err)
	_, err = stack.groups.SendInvitation(ctx, g.ID, "alice", "bob")
	require.NoError(t, err)

	_, err = stack.groups.DeleteGroup(ctx, g.ID)
	require.NoError(t, err)

	for _, mt := range media.AllTypes {
		_, err := stack.queueSvc.GetQueue(ctx, mt, "alice", g.ID)
		assert.ErrorIs(t, err, queue.ErrQueueNotFound)
	}
	pending, err := stack.inviteStore.PendingForGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	member, err := stack.userStore.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotContains(t, member.Groups, g.ID)
}

func TestInvitationAcceptFlow(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "carol"} {
		_, err := stack.users.SignUp(ctx, name, "s3cret", "", "", "")
		require.NoError(t, err)
	}
	g, err := stack.groups.CreateGroup(ctx, "movie night", "alice")
	require.NoError(t, err)

	inv, err := stack.groups.SendInvitation(ctx, g.ID, "alice", "carol")
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusPending, inv.Status)

	invited, err := stack.userStore.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Contains(t, invited.GroupInvites, inv.ID)

	accepted, err := stack.groups.RespondToInvitation(ctx, inv.ID, invitation.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, invitation.StatusAccepted, accepted.Status)

	updated, err := stack.groupStore.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol"}, updated.Members)

	invited, err = stack.userStore.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.Contains(t, invited.Groups, g.ID)
	assert.NotContains(t, invited.GroupInvites, inv.ID)

	// Membership fanned out: carol shares all six group queues, alice remains.
	for _, mt := range media.AllTypes {
		q, err := stack.queueSvc.GetQueue(ctx, mt, "carol", g.ID)
		require.NoErrorf(t, err, "carol missing from %s queue", mt)
		assert.ElementsMatch(t, []string{"alice", "carol"}, q.Users)
	}
}

func TestInvitationDeclineFlow(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "carol"} {
		_, err := stack.users.SignUp(ctx, name, "s3cret", "", "", "")
		require.NoError(t, err)
	}
	g, err := stack.groups.CreateGroup(ctx, "movie night", "alice")
	require.NoError(t, err)
	inv, err := stack.groups.SendInvitation(ctx, g.ID, "alice", "carol")
	require.NoError(t, err)

	_, err = stack.groups.RespondToInvitation(ctx, inv.ID, invitation.StatusDeclined)
	require.NoError(t, err)

	_, err = stack.inviteStore.GetByID(ctx, inv.ID)
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)

	updated, err := stack.groupStore.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, updated.Members)
}

func TestRespondToInvitationRejectsBadStatus(t *testing.T) {
	stack := newTestStack(t)

	_, err := stack.groups.RespondToInvitation(context.Background(), "inv-1", "maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSendInvitationRejectsDuplicates(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "carol"} {
		_, err := stack.users.SignUp(ctx, name, "s3cret", "", "", "")
		require.NoError(t, err)
	}
	g, err := stack.groups.CreateGroup(ctx, "movie night", "alice")
	require.NoError(t, err)

	_, err = stack.groups.SendInvitation(ctx, g.ID, "alice", "carol")
	require.NoError(t, err)
	_, err = stack.groups.SendInvitation(ctx, g.ID, "alice", "carol")
	assert.ErrorIs(t, err, invitation.ErrInvitationExists)
}

func TestLeaveGroup(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "carol"} {
		_, err := stack.users.SignUp(ctx, name, "s3cret", "", "", "")
		require.NoError(t, err)
	}
	g, err := stack.groups.CreateGroup(ctx, "movie night", "alice")
	require.NoError(t, err)
	inv, err := stack.groups.SendInvitation(ctx, g.ID, "alice", "carol")
	require.NoError(t, err)
	_, err = stack.groups.RespondToInvitation(ctx, inv.ID, invitation.StatusAccepted)
	require.NoError(t, err)

	left, err := stack.groups.LeaveGroup(ctx, g.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, left.Members)

	gone, err := stack.userStore.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.NotContains(t, gone.Groups, g.ID)

	// The queues persist but carol no longer shares them.
	for _, mt := range media.AllTypes {
		q, err := stack.queueSvc.GetQueue(ctx, mt, "alice", g.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, q.Users)
	}
}
