// Package journal is the repository front-ends talk to. It owns the store
// and an in-memory snapshot of all entries that is reloaded after every
// mutation, so reads are always consistent with the last write.
package journal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pbaille/journal/internal/dbx"
	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/logging"
	"github.com/pbaille/journal/internal/store"
)

// Journal holds the storage handle and the current snapshot.
type Journal struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time

	// mu serializes mutations; snapMu guards the snapshot.
	mu       sync.Mutex
	snapMu   sync.RWMutex
	snapshot []domain.Entry
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// New creates a Journal over s and loads the initial snapshot.
func New(ctx context.Context, s *store.Store, log logging.Logger, opts ...Option) (*Journal, error) {
	j := &Journal{
		store: s,
		log:   log.With("component", "journal"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.Reload(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

// Reload reads every entry from storage and swaps the snapshot.
func (j *Journal) Reload(ctx context.Context) error {
	entries, problems, err := j.store.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("reload snapshot: %w", err)
	}
	for _, p := range problems {
		j.log.Warn(ctx, "entry tags could not be resolved, showing it without tags",
			"entry_id", p.EntryID, "token", p.Token, "err", p.Err)
	}

	j.snapMu.Lock()
	j.snapshot = entries
	j.snapMu.Unlock()
	return nil
}

// CreateEntry stores a new entry with the given tags and returns it as
// persisted.
func (j *Journal) CreateEntry(ctx context.Context, title, content string, tags []string) (domain.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var id int64
	err := j.store.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		id, err = j.store.InsertEntry(ctx, tx, title, content, j.now())
		if err != nil {
			return err
		}
		return j.store.ReplaceEntryTags(ctx, tx, id, tags)
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	j.log.Debug(ctx, "entry created", "entry_id", id)

	return j.reloadAndGet(ctx, id)
}

// EditEntry writes e's title and content. If e.Tags is non-nil it becomes
// the entry's full tag set (an empty slice clears it); a nil e.Tags leaves
// the tags untouched.
func (j *Journal) EditEntry(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.edit(ctx, e)
}

// Patch names the fields of an entry to change. Nil fields keep their
// current value; a non-nil empty Tags clears the tags.
type Patch struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// PatchEntry applies p to the entry as currently stored. Reading and writing
// happen under the mutation lock, so patches of different fields never
// overwrite each other.
func (j *Journal) PatchEntry(ctx context.Context, id int64, p Patch) (domain.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	e, ok := j.GetEntryByID(id)
	if !ok {
		return domain.Entry{}, fmt.Errorf("edit entry: entry %d: %w", id, store.ErrNotFound)
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	e.Tags = nil
	if p.Tags != nil {
		e.Tags = domain.TagsFromNames(domain.NormalizeTags(*p.Tags))
	}
	return j.edit(ctx, e)
}

// edit must be called with j.mu held.
func (j *Journal) edit(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	err := j.store.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := j.store.UpdateEntry(ctx, tx, e.ID, e.Title, e.Content, j.now()); err != nil {
			return err
		}
		if e.Tags == nil {
			return nil
		}
		return j.store.ReplaceEntryTags(ctx, tx, e.ID, e.TagNames())
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("edit entry: %w", err)
	}
	j.log.Debug(ctx, "entry edited", "entry_id", e.ID, "tags_replaced", e.Tags != nil)

	return j.reloadAndGet(ctx, e.ID)
}

// DeleteEntry removes the entry with the given id and returns it as it was.
func (j *Journal) DeleteEntry(ctx context.Context, id int64) (domain.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	old, _ := j.GetEntryByID(id)

	err := j.store.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.store.DeleteEntry(ctx, tx, id)
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("delete entry: %w", err)
	}
	j.log.Debug(ctx, "entry deleted", "entry_id", id)

	if err := j.Reload(ctx); err != nil {
		return old, err
	}
	return old, nil
}

// ListEntries returns a copy of the snapshot, newest first.
func (j *Journal) ListEntries() []domain.Entry {
	j.snapMu.RLock()
	defer j.snapMu.RUnlock()

	out := make([]domain.Entry, len(j.snapshot))
	for i, e := range j.snapshot {
		out[i] = e.Clone()
	}
	return out
}

// GetEntryByID looks the entry up in the snapshot.
func (j *Journal) GetEntryByID(id int64) (domain.Entry, bool) {
	j.snapMu.RLock()
	defer j.snapMu.RUnlock()

	for _, e := range j.snapshot {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return domain.Entry{}, false
}

// Search returns the entries whose title, content or tag names contain
// query, ignoring case.
func (j *Journal) Search(query string) []domain.Entry {
	q := strings.ToLower(strings.TrimSpace(query))

	out := []domain.Entry{}
	for _, e := range j.ListEntries() {
		if q == "" || matches(e, q) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e domain.Entry, q string) bool {
	if strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Content), q) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t.Name), q) {
			return true
		}
	}
	return false
}

// Tags lists all tags with their entry counts.
func (j *Journal) Tags(ctx context.Context) ([]domain.TagCount, error) {
	return j.store.ListTags(ctx)
}

// Ping checks the underlying storage.
func (j *Journal) Ping(ctx context.Context) error {
	return j.store.Ping(ctx)
}

func (j *Journal) reloadAndGet(ctx context.Context, id int64) (domain.Entry, error) {
	if err := j.Reload(ctx); err != nil {
		return domain.Entry{}, err
	}
	e, ok := j.GetEntryByID(id)
	if !ok {
		return domain.Entry{}, fmt.Errorf("entry %d missing after reload: %w", id, store.ErrNotFound)
	}
	return e, nil
}
