// This file contains the QueueService implementation, the core of the queue/media consistency
// subsystem. It keeps three things mutually consistent, best-effort, across concurrent requests:
// the per-(media type, owner) queue documents, the shared media cache, and the cached records'
// numQueues popularity counters.
//
// The service never takes in-process locks. Every invariant-bearing queue mutation is delegated to
// a single atomic store update; the only read-then-act sequences are the duplicate-media check and
// the cache-existence check, which are tolerated by making the cache insert idempotent. No
// transaction spans the media cache and the queue collection: a crash between the counter increment
// and the queue update leaves a stale counter, never a corrupt queue.
//
// Two accepted counter drifts are intentional, mirrored from the original behavior:
//   - deleting queues in bulk (group/user removal) does not decrement the counters of the media
//     those queues referenced;
//   - deleting a media id from a bucket decrements unconditionally, even if the pull matched
//     nothing.

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
	"github.com/upnext-app/go-server/internal/models/queue"
)

var (
	// ErrMediaAlreadyInQueue is returned when the media id is already in the queue's current or history.
	ErrMediaAlreadyInQueue = errors.New("media already in queue")
	// ErrInvalidInput is returned when a required string identifier is empty or missing.
	ErrInvalidInput = errors.New("invalid input")
)

// QueueStore is the queue collection contract the engine needs. *queue.QueueManager satisfies it.
type QueueStore interface {
	Create(ctx context.Context, q *queue.Queue) error
	FindByID(ctx context.Context, queueID string) (*queue.Queue, error)
	FindByOwner(ctx context.Context, t media.Type, username, group string) (*queue.Queue, error)
	AddToCurrent(ctx context.Context, queueID, mediaID string) (*queue.Queue, error)
	MoveToHistory(ctx context.Context, queueID string, mediaIDs []string) (*queue.Queue, error)
	PullFromBucket(ctx context.Context, queueID string, bucket queue.Bucket, mediaID string) (*queue.Queue, error)
	AddUser(ctx context.Context, t media.Type, group, username string) (*queue.Queue, error)
	RemoveUser(ctx context.Context, t media.Type, group, username string) (*queue.Queue, error)
	DeleteByGroup(ctx context.Context, t media.Type, group string) (int64, error)
	DeleteByOwner(ctx context.Context, t media.Type, username, group string) (int64, error)
}

// MediaStore is the media cache contract the engine needs. *media.MediaManager satisfies it.
type MediaStore interface {
	FindByID(ctx context.Context, t media.Type, id string) (media.Record, error)
	EnsureExists(ctx context.Context, rec media.Record) error
	AdjustQueueCount(ctx context.Context, t media.Type, id string, delta int) error
	MostQueued(ctx context.Context, t media.Type, limit int) ([]media.Record, error)
}

// topN is how many entries the top-of-queue retrievals return.
const topN = 3

type QueueService struct {
	queues QueueStore
	cache  MediaStore
	events EventPublisher
	logger *log.Logger
}

// NewQueueService creates a new QueueService. events may be nil, in which case
// no activity events are published.
func NewQueueService(queues QueueStore, cache MediaStore, events EventPublisher, logger *log.Logger) *QueueService {
	return &QueueService{
		queues: queues,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// PopulatedQueue is a queue with its media ids resolved against the media cache for display.
// Ids whose records have gone missing from the cache are dropped from the populated view.
type PopulatedQueue struct {
	ID        string         `json:"_id"`
	MediaType media.Type     `json:"mediaType"`
	Users     []string       `json:"users"`
	Group     string         `json:"group"`
	Current   []media.Record `json:"current"`
	History   []media.Record `json:"history"`
	Media     string         `json:"media"`
}

// CreateMovieQueue creates a Movie queue for the given owner set.
func (s *QueueService) CreateMovieQueue(ctx context.Context, users []string, group string) (*queue.Queue, error) {
	return s.createQueue(ctx, media.TypeMovie, users, group)
}

// CreateTVQueue creates a TV queue for the given owner set.
func (s *QueueService) CreateTVQueue(ctx context.Context, users []string, group string) (*queue.Queue, error) {
	return s.createQueue(ctx, media.TypeTV, users, group)
}

// CreateAlbumQueue creates an Album queue for the given owner set.
func (s *QueueService) CreateAlbumQueue(ctx context.Context, users []string, group string) (*queue.Queue, error) {
	return s.createQueue(ctx, media.TypeAlbum, users, group)
}

// CreateBookQueue creates a Book queue for the given owner set.
func (s *QueueService) CreateBookQueue(ctx context.Context, users []string, group string) (*queue.Queue, error) {
	return s.createQueue(ctx, media.TypeBook, users, group)
}

// CreateVideoGameQueue creates a VideoGame queue for the given owner set.
func (s *QueueService) CreateVideoGameQueue(ctx context.Context, users []string, group string) (*queue.Queue, error) {
	return s.createQueue(ctx, media.TypeVideoGame, users, group)
}

// CreatePodcastQueue creates a Podcast queue for the given owner set.
func (s *QueueService) CreatePodcastQueue(ctx context.Context, users []string, group string) (*queue.Queue, error) {
	return s.createQueue(ctx, media.TypePodcast, users, group)
}

// CreateQueue creates a queue of the given media type for the given owner set.
// The per-type wrappers above forward here; callers creating all six queues for
// a new user or group call this once per type and must treat partial failure as
// requiring compensating cleanup, as the six creations are not transactional.
func (s *QueueService) CreateQueue(ctx context.Context, t media.Type, users []string, group string) (*queue.Queue, error) {
	return s.createQueue(ctx, t, users, group)
}

func (s *QueueService) createQueue(ctx context.Context, t media.Type, users []string, group string) (*queue.Queue, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, media.ErrUnknownMediaType)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: queue needs at least one user", ErrInvalidInput)
	}
	for _, u := range users {
		if u == "" {
			return nil, fmt.Errorf("%w: empty username", ErrInvalidInput)
		}
	}

	q := &queue.Queue{
		ID:        uuid.NewString(),
		MediaType: t,
		Users:     users,
		Group:     group,
		Current:   []string{},
		History:   []string{},
		Media:     t.Discriminator(),
	}
	if err := s.queues.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create %s queue: %w", t, err)
	}

	s.publish(ctx, Event{Type: EventQueueCreated, MediaType: t, QueueID: q.ID, Group: group})
	return q, nil
}

// GetQueue finds the unique queue for media type + username + group and returns it
// populated for display. An empty group means the user's personal queue.
func (s *QueueService) GetQueue(ctx context.Context, t media.Type, username, group string) (*PopulatedQueue, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrInvalidInput)
	}

	q, err := s.queues.FindByOwner(ctx, t, username, group)
	if err != nil {
		if errors.Is(err, queue.ErrQueueNotFound) {
			return nil, fmt.Errorf("%s Queue not found for user %s and group %s: %w", t, username, group, err)
		}
		return nil, err
	}
	return s.populate(ctx, q)
}

// AddMediaToQueue adds the payload's media to the queue's current bucket.
//
// The cache is touched before the queue document: the record is lazily inserted
// if absent and its numQueues counter incremented, then the id is added to
// current with a single atomic update. A crash between those steps leaves the
// counter overcounting relative to actual queue membership; that is accepted.
// For the same reason a failed call must not be blindly retried.
func (s *QueueService) AddMediaToQueue(ctx context.Context, t media.Type, queueID string, payload media.Record) (*PopulatedQueue, error) {
	if payload == nil || payload.RecordID() == "" {
		return nil, fmt.Errorf("%w: media payload is missing its id", ErrInvalidInput)
	}
	if payload.Kind() != t {
		return nil, fmt.Errorf("%w: %s payload on a %s queue", ErrInvalidInput, payload.Kind(), t)
	}

	q, err := s.queues.FindByID(ctx, queueID)
	if err != nil {
		return nil, err
	}

	mediaID := payload.RecordID()
	if q.Contains(mediaID) {
		return nil, ErrMediaAlreadyInQueue
	}

	// Lazy cache population. Two concurrent adds of the same new media may both
	// reach here; EnsureExists swallows the duplicate-key conflict.
	if _, err := s.cache.FindByID(ctx, t, mediaID); err != nil {
		if !errors.Is(err, media.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.cache.EnsureExists(ctx, payload); err != nil {
			return nil, err
		}
	}

	if err := s.cache.AdjustQueueCount(ctx, t, mediaID, 1); err != nil {
		return nil, err
	}

	updated, err := s.queues.AddToCurrent(ctx, queueID, mediaID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventMediaAdded, MediaType: t, QueueID: queueID, MediaID: mediaID})
	return s.populate(ctx, updated)
}

// MoveMediaFromCurrentToHistory marks the given media ids as consumed, moving them
// from current to history in one atomic update. Every given id ends up in history,
// whether or not it was in current. The numQueues counters do not change: the media
// is still in the queue, just in a different bucket.
func (s *QueueService) MoveMediaFromCurrentToHistory(ctx context.Context, t media.Type, queueID string, mediaIDs []string) (*PopulatedQueue, error) {
	if len(mediaIDs) == 0 {
		return nil, fmt.Errorf("%w: no media ids to move", ErrInvalidInput)
	}

	updated, err := s.queues.MoveToHistory(ctx, queueID, mediaIDs)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventMediaMoved, MediaType: t, QueueID: queueID})
	return s.populate(ctx, updated)
}

// DeleteMediaFromCurrentQueue removes one media id from the queue's current bucket
// and decrements the record's numQueues counter.
func (s *QueueService) DeleteMediaFromCurrentQueue(ctx context.Context, t media.Type, queueID, mediaID string) (*PopulatedQueue, error) {
	return s.deleteFromBucket(ctx, t, queueID, queue.BucketCurrent, mediaID)
}

// DeleteMediaFromHistoryQueue removes one media id from the queue's history bucket
// and decrements the record's numQueues counter.
func (s *QueueService) DeleteMediaFromHistoryQueue(ctx context.Context, t media.Type, queueID, mediaID string) (*PopulatedQueue, error) {
	return s.deleteFromBucket(ctx, t, queueID, queue.BucketHistory, mediaID)
}

// deleteFromBucket is the only path that decrements numQueues, mirroring the
// increment in AddMediaToQueue. The decrement is unconditional on a successful
// pull: if the id was not actually in the bucket the pull is a no-op but the
// counter still drops. Documented behavior, kept as-is.
func (s *QueueService) deleteFromBucket(ctx context.Context, t media.Type, queueID string, bucket queue.Bucket, mediaID string) (*PopulatedQueue, error) {
	if mediaID == "" {
		return nil, fmt.Errorf("%w: empty media id", ErrInvalidInput)
	}

	updated, err := s.queues.PullFromBucket(ctx, queueID, bucket, mediaID)
	if err != nil {
		if errors.Is(err, queue.ErrQueueNotFound) {
			return nil, fmt.Errorf("failed to delete media from %s: %w", bucket, err)
		}
		return nil, err
	}

	if err := s.cache.AdjustQueueCount(ctx, t, mediaID, -1); err != nil {
		// The pull already happened; a failed decrement only leaves the
		// popularity counter high. Log and keep going.
		s.logger.Errorf("Failed to decrement queue count for %s %s: %v", t, mediaID, err)
	}

	s.publish(ctx, Event{Type: EventMediaRemoved, MediaType: t, QueueID: queueID, MediaID: mediaID})
	return s.populate(ctx, updated)
}

// RetrieveTop3InCurrentQueue returns the queue with only the first three entries of
// current populated. Insertion order, not relevance.
func (s *QueueService) RetrieveTop3InCurrentQueue(ctx context.Context, t media.Type, username, group string) (*PopulatedQueue, error) {
	return s.retrieveTop(ctx, t, username, group, queue.BucketCurrent)
}

// RetrieveTop3InPersonalHistory returns the queue with only the first three entries
// of history populated.
func (s *QueueService) RetrieveTop3InPersonalHistory(ctx context.Context, t media.Type, username, group string) (*PopulatedQueue, error) {
	return s.retrieveTop(ctx, t, username, group, queue.BucketHistory)
}

func (s *QueueService) retrieveTop(ctx context.Context, t media.Type, username, group string, bucket queue.Bucket) (*PopulatedQueue, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrInvalidInput)
	}

	q, err := s.queues.FindByOwner(ctx, t, username, group)
	if err != nil {
		if errors.Is(err, queue.ErrQueueNotFound) {
			return nil, fmt.Errorf("%s Queue not found for user %s and group %s: %w", t, username, group, err)
		}
		return nil, err
	}

	switch bucket {
	case queue.BucketCurrent:
		q.Current = headOf(q.Current)
		q.History = nil
	case queue.BucketHistory:
		q.History = headOf(q.History)
		q.Current = nil
	}
	return s.populate(ctx, q)
}

func headOf(ids []string) []string {
	if len(ids) > topN {
		return ids[:topN]
	}
	return ids
}

// DeleteQueuesByMediaTypeAndGroup deletes the group's queues of the given media type
// and returns the deleted count. The numQueues counters of the media those queues
// referenced are NOT reconciled; after a group deletion they permanently overcount.
func (s *QueueService) DeleteQueuesByMediaTypeAndGroup(ctx context.Context, t media.Type, group string) (int64, error) {
	if group == "" {
		return 0, fmt.Errorf("%w: empty group id", ErrInvalidInput)
	}
	count, err := s.queues.DeleteByGroup(ctx, t, group)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, Event{Type: EventQueueDeleted, MediaType: t, Group: group})
	return count, nil
}

// DeleteQueuesByMediaTypeAndUsernameAndGroup deletes the queues matching media type +
// username + group and returns the deleted count. With an empty group this removes
// the user's personal queue for that type. Counters are not reconciled here either.
func (s *QueueService) DeleteQueuesByMediaTypeAndUsernameAndGroup(ctx context.Context, t media.Type, username, group string) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("%w: empty username", ErrInvalidInput)
	}
	count, err := s.queues.DeleteByOwner(ctx, t, username, group)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, Event{Type: EventQueueDeleted, MediaType: t, Group: group, Username: username})
	return count, nil
}

// FanOutResult reports one media type's outcome of a group-wide membership change.
type FanOutResult struct {
	Queue *queue.Queue `json:"queue,omitempty"`
	Err   error        `json:"-"`
}

// AddUserToAllGroupQueues adds the username to the users set of each of the group's
// six queues. The six updates are independent: there is no rollback, and callers
// must inspect each per-type result for partial failure.
func (s *QueueService) AddUserToAllGroupQueues(ctx context.Context, username, group string) (map[media.Type]FanOutResult, error) {
	if username == "" || group == "" {
		return nil, fmt.Errorf("%w: username and group are required", ErrInvalidInput)
	}

	results := make(map[media.Type]FanOutResult, len(media.AllTypes))
	for _, t := range media.AllTypes {
		q, err := s.queues.AddUser(ctx, t, group, username)
		if err != nil {
			s.logger.Errorf("Failed to add %s to %s queue of group %s: %v", username, t, group, err)
		}
		results[t] = FanOutResult{Queue: q, Err: err}
	}

	s.publish(ctx, Event{Type: EventUserFannedOut, Group: group, Username: username})
	return results, nil
}

// RemoveUserFromAllGroupQueues removes the username from the users set of each of
// the group's six queues. Like the fan-out, the six updates are independent and
// reported per type. The queues themselves persist with updated membership.
func (s *QueueService) RemoveUserFromAllGroupQueues(ctx context.Context, username, group string) (map[media.Type]FanOutResult, error) {
	if username == "" || group == "" {
		return nil, fmt.Errorf("%w: username and group are required", ErrInvalidInput)
	}

	results := make(map[media.Type]FanOutResult, len(media.AllTypes))
	for _, t := range media.AllTypes {
		q, err := s.queues.RemoveUser(ctx, t, group, username)
		if err != nil {
			s.logger.Errorf("Failed to remove %s from %s queue of group %s: %v", username, t, group, err)
		}
		results[t] = FanOutResult{Queue: q, Err: err}
	}
	return results, nil
}

// PopularMedia returns the most-queued records of the given type.
func (s *QueueService) PopularMedia(ctx context.Context, t media.Type, limit int) ([]media.Record, error) {
	if limit <= 0 {
		limit = 5
	}
	records, err := s.cache.MostQueued(ctx, t, limit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no popular %s found: %w", t, media.ErrRecordNotFound)
	}
	return records, nil
}

// populate resolves the queue's current/history ids against the media cache.
// Records missing from the cache are skipped; the raw ids stay in the document.
func (s *QueueService) populate(ctx context.Context, q *queue.Queue) (*PopulatedQueue, error) {
	current, err := s.resolve(ctx, q.MediaType, q.Current)
	if err != nil {
		return nil, err
	}
	history, err := s.resolve(ctx, q.MediaType, q.History)
	if err != nil {
		return nil, err
	}

	return &PopulatedQueue{
		ID:        q.ID,
		MediaType: q.MediaType,
		Users:     q.Users,
		Group:     q.Group,
		Current:   current,
		History:   history,
		Media:     q.Media,
	}, nil
}

func (s *QueueService) resolve(ctx context.Context, t media.Type, ids []string) ([]media.Record, error) {
	records := make([]media.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.cache.FindByID(ctx, t, id)
		if err != nil {
			if errors.Is(err, media.ErrRecordNotFound) {
				s.logger.Warnf("Queued %s record %s is missing from the cache", t, id)
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *QueueService) publish(ctx context.Context, e Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, e)
}
