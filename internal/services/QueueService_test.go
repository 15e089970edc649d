package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upnext-app/go-server/internal/log"
	"github.com/upnext-app/go-server/internal/models/media"
	"github.com/upnext-app/go-server/internal/models/queue"
)

// fakeQueueStore is an in-memory QueueStore with the same set semantics as the
// Mongo-backed manager: $addToSet never duplicates, $pull ignores absent ids.
type fakeQueueStore struct {
	mu     sync.Mutex
	queues map[string]*queue.Queue
}

func newFakeQueueStore() *fakeQueueStore {
	return &fakeQueueStore{queues: make(map[string]*queue.Queue)}
}

func cloneQueue(q *queue.Queue) *queue.Queue {
	c := *q
	c.Users = slices.Clone(q.Users)
	c.Current = slices.Clone(q.Current)
	c.History = slices.Clone(q.History)
	return &c
}

func (f *fakeQueueStore) Create(_ context.Context, q *queue.Queue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.queues[q.ID]; ok {
		return queue.ErrQueueAlreadyExists
	}
	f.queues[q.ID] = cloneQueue(q)
	return nil
}

func (f *fakeQueueStore) FindByID(_ context.Context, queueID string) (*queue.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[queueID]
	if !ok {
		return nil, queue.ErrQueueNotFound
	}
	return cloneQueue(q), nil
}

func (f *fakeQueueStore) FindByOwner(_ context.Context, t media.Type, username, group string) (*queue.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.queues {
		if q.MediaType == t && q.Group == group && slices.Contains(q.Users, username) {
			return cloneQueue(q), nil
		}
	}
	return nil, queue.ErrQueueNotFound
}

func (f *fakeQueueStore) AddToCurrent(_ context.Context, queueID, mediaID string) (*queue.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[queueID]
	if !ok {
		return nil, queue.ErrQueueNotFound
	}
	if !slices.Contains(q.Current, mediaID) {
		q.Current = append(q.Current, mediaID)
	}
	return cloneQueue(q), nil
}

func (f *fakeQueueStore) MoveToHistory(_ context.Context, queueID string, mediaIDs []string) (*queue.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[queueID]
	if !ok {
		return nil, queue.ErrQueueNotFound
	}
	q.Current = slices.DeleteFunc(q.Current, func(id string) bool {
		return slices.Contains(mediaIDs, id)
	})
	for _, id := range mediaIDs {
		if !slices.Contains(q.History, id) {
			q.History = append(q.History, id)
		}
	}
	return cloneQueue(q), nil
}

func (f *fakeQueueStore) PullFromBucket(_ context.Context, queueID string, bucket queue.Bucket, mediaID string) (*queue.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[queueID]
	if !ok {
		return nil, queue.ErrQueueNotFound
	}
	remove := func(ids []string) []string {
		return slices.DeleteFunc(ids, func(id string) bool { return id == mediaID })
	}
	if bucket == queue.BucketCurrent {
		q.Current = remove(q.Current)
	} else {
		q.History = remove(q.History)
	}
	return cloneQueue(q), nil
}

func (f *fakeQueueStore) AddUser(_ context.Context, t media.Type, group, username string) (*queue.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.queues {
		if q.MediaType == t && q.Group == group {
			if !slices.Contains(q.Users, username) {
				q.Users = append(q.Users, username)
			}
			return cloneQueue(q), nil
		}
	}
	return nil, queue.ErrQueueNotFound
}

func (f *fakeQueueStore) RemoveUser(_ context.Context, t media.Type, group, username string) (*queue.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.queues {
		if q.MediaType == t && q.Group == group {
			q.Users = slices.DeleteFunc(q.Users, func(u string) bool { return u == username })
			return cloneQueue(q), nil
		}
	}
	return nil, queue.ErrQueueNotFound
}

func (f *fakeQueueStore) DeleteByGroup(_ context.Context, t media.Type, group string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, q := range f.queues {
		if q.MediaType == t && q.Group == group {
			delete(f.queues, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeQueueStore) DeleteByOwner(_ context.Context, t media.Type, username, group string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, q := range f.queues {
		if q.MediaType == t && q.Group == group && slices.Contains(q.Users, username) {
			delete(f.queues, id)
			count++
		}
	}
	return count, nil
}

// fakeMediaStore is an in-memory MediaStore. It records insert attempts so tests
// can assert idempotency under concurrent cache population.
type fakeMediaStore struct {
	mu             sync.Mutex
	records        map[string]media.Record
	counts         map[string]int
	insertAttempts map[string]int
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{
		records:        make(map[string]media.Record),
		counts:         make(map[string]int),
		insertAttempts: make(map[string]int),
	}
}

func mediaKey(t media.Type, id string) string { return string(t) + "/" + id }

func (f *fakeMediaStore) FindByID(_ context.Context, t media.Type, id string) (media.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[mediaKey(t, id)]
	if !ok {
		return nil, media.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeMediaStore) EnsureExists(_ context.Context, rec media.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := mediaKey(rec.Kind(), rec.RecordID())
	f.insertAttempts[key]++
	if _, ok := f.records[key]; ok {
		return nil // duplicate insert treated as success
	}
	f.records[key] = rec
	return nil
}

func (f *fakeMediaStore) AdjustQueueCount(_ context.Context, t media.Type, id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[mediaKey(t, id)] += delta
	return nil
}

func (f *fakeMediaStore) MostQueued(_ context.Context, t media.Type, limit int) ([]media.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var records []media.Record
	for _, rec := range f.records {
		if rec.Kind() == t {
			records = append(records, rec)
		}
	}
	slices.SortFunc(records, func(a, b media.Record) int {
		return f.counts[mediaKey(t, b.RecordID())] - f.counts[mediaKey(t, a.RecordID())]
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (f *fakeMediaStore) count(t media.Type, id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[mediaKey(t, id)]
}

func newTestQueueService(t *testing.T) (*QueueService, *fakeQueueStore, *fakeMediaStore) {
	t.Helper()
	logger, err := log.NewLogger(true, false)
	require.NoError(t, err)

	queues := newFakeQueueStore()
	cache := newFakeMediaStore()
	return NewQueueService(queues, cache, nil, logger), queues, cache
}

func batmanMovie() *media.Movie {
	return &media.Movie{
		ID:          "414906",
		Title:       "The Batman",
		Director:    "Matt Reeves",
		ReleaseDate: "2022-03-01",
	}
}

func TestCreateQueuesForEveryType(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	creators := map[media.Type]func(context.Context, []string, string) (*queue.Queue, error){
		media.TypeMovie:     svc.CreateMovieQueue,
		media.TypeTV:        svc.CreateTVQueue,
		media.TypeAlbum:     svc.CreateAlbumQueue,
		media.TypeBook:      svc.CreateBookQueue,
		media.TypeVideoGame: svc.CreateVideoGameQueue,
		media.TypePodcast:   svc.CreatePodcastQueue,
	}

	for mt, create := range creators {
		q, err := create(ctx, []string{"alice"}, "")
		require.NoError(t, err)
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, mt, q.MediaType)
		assert.Equal(t, []string{"alice"}, q.Users)
		assert.Empty(t, q.Group)
		assert.Empty(t, q.Current)
		assert.Empty(t, q.History)
		assert.Equal(t, mt.Discriminator(), q.Media)
	}
}

func TestCreateQueueValidation(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	_, err := svc.CreateMovieQueue(ctx, nil, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateMovieQueue(ctx, []string{""}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateQueue(ctx, media.Type("Vinyl"), []string{"alice"}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddMediaToQueue(t *testing.T) {
	svc, _, cache := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	populated, err := svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	require.NoError(t, err)

	require.Len(t, populated.Current, 1)
	assert.Equal(t, "414906", populated.Current[0].RecordID())
	assert.Empty(t, populated.History)
	assert.Equal(t, 1, cache.count(media.TypeMovie, "414906"))

	// The payload was lazily cached.
	rec, err := cache.FindByID(ctx, media.TypeMovie, "414906")
	require.NoError(t, err)
	assert.Equal(t, "The Batman", rec.(*media.Movie).Title)
}

func TestAddMediaToQueueRejectsDuplicates(t *testing.T) {
	svc, queues, cache := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	require.NoError(t, err)

	_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	assert.ErrorIs(t, err, ErrMediaAlreadyInQueue)

	// The queue and the counter are unchanged by the rejected add.
	stored, err := queues.FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"414906"}, stored.Current)
	assert.Equal(t, 1, cache.count(media.TypeMovie, "414906"))
}

func TestAddMediaToQueueRejectsDuplicateInHistory(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	require.NoError(t, err)
	_, err = svc.MoveMediaFromCurrentToHistory(ctx, media.TypeMovie, q.ID, []string{"414906"})
	require.NoError(t, err)

	// Consumed media cannot be re-enqueued: at most one appearance across both buckets.
	_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	assert.ErrorIs(t, err, ErrMediaAlreadyInQueue)
}

func TestAddMediaToQueueNotFound(t *testing.T) {
	svc, _, _ := newTestQueueService(t)

	_, err := svc.AddMediaToQueue(context.Background(), media.TypeMovie, "missing", batmanMovie())
	assert.ErrorIs(t, err, queue.ErrQueueNotFound)
}

func TestAddMediaToQueueRejectsWrongKind(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateBookQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	_, err = svc.AddMediaToQueue(ctx, media.TypeBook, q.ID, batmanMovie())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConcurrentAddsInsertCacheRecordOnce(t *testing.T) {
	svc, _, cache := newTestQueueService(t)
	ctx := context.Background()

	// Two users enqueue the same never-seen media at the same time.
	qa, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)
	qb, err := svc.CreateMovieQueue(ctx, []string{"bob"}, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{qa.ID, qb.ID} {
		wg.Add(1)
		go func(i int, queueID string) {
			defer wg.Done()
			_, errs[i] = svc.AddMediaToQueue(ctx, media.TypeMovie, queueID, batmanMovie())
		}(i, id)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Exactly one cached row regardless of how many inserts raced.
	cache.mu.Lock()
	_, ok := cache.records[mediaKey(media.TypeMovie, "414906")]
	cache.mu.Unlock()
	assert.True(t, ok)
	assert.Equal(t, 2, cache.count(media.TypeMovie, "414906"))
}

func TestMoveMediaFromCurrentToHistory(t *testing.T) {
	svc, queues, cache := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)
	_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	require.NoError(t, err)

	populated, err := svc.MoveMediaFromCurrentToHistory(ctx, media.TypeMovie, q.ID, []string{"414906"})
	require.NoError(t, err)
	assert.Empty(t, populated.Current)
	require.Len(t, populated.History, 1)
	assert.Equal(t, "414906", populated.History[0].RecordID())

	// The media is still in the queue, so the counter does not change.
	assert.Equal(t, 1, cache.count(media.TypeMovie, "414906"))

	// Every given id lands in history, even ones never in current, and re-moves
	// do not duplicate history entries.
	_, err = svc.MoveMediaFromCurrentToHistory(ctx, media.TypeMovie, q.ID, []string{"414906", "603"})
	require.NoError(t, err)
	stored, err := queues.FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"414906", "603"}, stored.History)
	assert.Empty(t, stored.Current)
}

func TestMoveMediaNotFound(t *testing.T) {
	svc, _, _ := newTestQueueService(t)

	_, err := svc.MoveMediaFromCurrentToHistory(context.Background(), media.TypeMovie, "missing", []string{"414906"})
	assert.ErrorIs(t, err, queue.ErrQueueNotFound)
}

func TestDeleteMediaPairsWithAdd(t *testing.T) {
	svc, queues, cache := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.count(media.TypeMovie, "414906"))

	populated, err := svc.DeleteMediaFromCurrentQueue(ctx, media.TypeMovie, q.ID, "414906")
	require.NoError(t, err)
	assert.Empty(t, populated.Current)
	assert.Equal(t, 0, cache.count(media.TypeMovie, "414906"))

	stored, err := queues.FindByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Current)
}

func TestDeleteMediaFromHistoryQueue(t *testing.T) {
	svc, _, cache := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)
	_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	require.NoError(t, err)
	_, err = svc.MoveMediaFromCurrentToHistory(ctx, media.TypeMovie, q.ID, []string{"414906"})
	require.NoError(t, err)

	populated, err := svc.DeleteMediaFromHistoryQueue(ctx, media.TypeMovie, q.ID, "414906")
	require.NoError(t, err)
	assert.Empty(t, populated.History)
	assert.Equal(t, 0, cache.count(media.TypeMovie, "414906"))
}

func TestDeleteMediaDecrementsUnconditionally(t *testing.T) {
	svc, _, cache := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	// Pulling an id that was never enqueued is a store-level no-op, but the
	// counter still drops. Documented behavior.
	_, err = svc.DeleteMediaFromCurrentQueue(ctx, media.TypeMovie, q.ID, "414906")
	require.NoError(t, err)
	assert.Equal(t, -1, cache.count(media.TypeMovie, "414906"))
}

func TestDeleteMediaQueueNotFound(t *testing.T) {
	svc, _, _ := newTestQueueService(t)

	_, err := svc.DeleteMediaFromCurrentQueue(context.Background(), media.TypeMovie, "missing", "414906")
	assert.ErrorIs(t, err, queue.ErrQueueNotFound)
	assert.Contains(t, err.Error(), "failed to delete media")
}

func TestRetrieveTop3InCurrentQueue(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		m := batmanMovie()
		m.ID = fmt.Sprintf("id-%d", i)
		_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, m)
		require.NoError(t, err)
	}

	populated, err := svc.RetrieveTop3InCurrentQueue(ctx, media.TypeMovie, "alice", "")
	require.NoError(t, err)
	require.Len(t, populated.Current, 3)
	// Insertion order, not relevance.
	assert.Equal(t, "id-0", populated.Current[0].RecordID())
	assert.Equal(t, "id-2", populated.Current[2].RecordID())
	assert.Empty(t, populated.History)
}

func TestRetrieveTop3InPersonalHistory(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 4; i++ {
		m := batmanMovie()
		m.ID = fmt.Sprintf("id-%d", i)
		ids = append(ids, m.ID)
		_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, m)
		require.NoError(t, err)
	}
	_, err = svc.MoveMediaFromCurrentToHistory(ctx, media.TypeMovie, q.ID, ids)
	require.NoError(t, err)

	populated, err := svc.RetrieveTop3InPersonalHistory(ctx, media.TypeMovie, "alice", "")
	require.NoError(t, err)
	require.Len(t, populated.History, 3)
	assert.Empty(t, populated.Current)
}

func TestGetQueueNotFoundNamesTheOwner(t *testing.T) {
	svc, _, _ := newTestQueueService(t)

	_, err := svc.GetQueue(context.Background(), media.TypeMovie, "nobody", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, queue.ErrQueueNotFound)
	assert.Contains(t, err.Error(), "Movie Queue not found for user nobody")
}

func TestDeleteQueuesByGroupLeavesCountersAlone(t *testing.T) {
	svc, queues, cache := newTestQueueService(t)
	ctx := context.Background()

	q, err := svc.CreateMovieQueue(ctx, []string{"alice", "bob"}, "g-1")
	require.NoError(t, err)
	_, err = svc.AddMediaToQueue(ctx, media.TypeMovie, q.ID, batmanMovie())
	require.NoError(t, err)

	count, err := svc.DeleteQueuesByMediaTypeAndGroup(ctx, media.TypeMovie, "g-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = queues.FindByID(ctx, q.ID)
	assert.ErrorIs(t, err, queue.ErrQueueNotFound)

	// Bulk deletion does not reconcile counters: the media permanently overcounts.
	assert.Equal(t, 1, cache.count(media.TypeMovie, "414906"))
}

func TestDeleteQueuesByOwner(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	_, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "")
	require.NoError(t, err)

	count, err := svc.DeleteQueuesByMediaTypeAndUsernameAndGroup(ctx, media.TypeMovie, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = svc.DeleteQueuesByMediaTypeAndUsernameAndGroup(ctx, media.TypeMovie, "alice", "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddUserToAllGroupQueues(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	members := []string{"alice", "bob"}
	for _, mt := range media.AllTypes {
		_, err := svc.CreateQueue(ctx, mt, slices.Clone(members), "g-1")
		require.NoError(t, err)
	}

	results, err := svc.AddUserToAllGroupQueues(ctx, "carol", "g-1")
	require.NoError(t, err)
	require.Len(t, results, len(media.AllTypes))

	for mt, r := range results {
		require.NoErrorf(t, r.Err, "fan-out failed for %s", mt)
		assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, r.Queue.Users)
	}
}

func TestAddUserToAllGroupQueuesReportsPartialFailure(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	// Only the Movie queue exists; the other five per-type updates must report
	// their own not-found errors without affecting the Movie result.
	_, err := svc.CreateMovieQueue(ctx, []string{"alice"}, "g-1")
	require.NoError(t, err)

	results, err := svc.AddUserToAllGroupQueues(ctx, "carol", "g-1")
	require.NoError(t, err)

	assert.NoError(t, results[media.TypeMovie].Err)
	for _, mt := range media.AllTypes {
		if mt == media.TypeMovie {
			continue
		}
		assert.ErrorIs(t, results[mt].Err, queue.ErrQueueNotFound)
	}
}

func TestRemoveUserFromAllGroupQueues(t *testing.T) {
	svc, _, _ := newTestQueueService(t)
	ctx := context.Background()

	for _, mt := range media.AllTypes {
		_, err := svc.CreateQueue(ctx, mt, []string{"alice", "bob"}, "g-1")
		require.NoError(t, err)
	}

	results, err := svc.RemoveUserFromAllGroupQueues(ctx, "bob", "g-1")
	require.NoError(t, err)

	for mt, r := range results {
		require.NoErrorf(t, r.Err, "fan-in failed for %s", mt)
		assert.Equal(t, []string{"alice"}, r.Queue.Users)
	}
}

func TestPopularMedia(t *testing.T) {
	svc, _, cache := newTestQueueService(t)
	ctx := context.Background()

	_, err := svc.PopularMedia(ctx, media.TypeMovie, 5)
	assert.Error(t, err)

	for i, n := range []int{3, 1, 2} {
		m := batmanMovie()
		m.ID = fmt.Sprintf("id-%d", i)
		require.NoError(t, cache.EnsureExists(ctx, m))
		require.NoError(t, cache.AdjustQueueCount(ctx, media.TypeMovie, m.ID, n))
	}

	records, err := svc.PopularMedia(ctx, media.TypeMovie, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id-0", records[0].RecordID())
	assert.Equal(t, "id-2", records[1].RecordID())
}
