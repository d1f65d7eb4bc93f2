package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pbaille/journal/internal/dbx"
	"github.com/pbaille/journal/internal/domain"
)

var (
	// ErrUnknownTag means a view row references a tag id missing from tags.
	ErrUnknownTag = errors.New("unknown tag id")
	// ErrMalformedTagList means a token of a view row's tag list is not an id.
	ErrMalformedTagList = errors.New("malformed tag list")
)

// DecodeError reports a view row whose tag list could not be resolved.
type DecodeError struct {
	EntryID int64
	Token   string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("entry %d: tag %q: %v", e.EntryID, e.Token, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type viewRow struct {
	ID      int64          `db:"entry_id"`
	Created int64          `db:"entry_created_time"`
	Updated int64          `db:"entry_updated_time"`
	Title   string         `db:"entry_title"`
	Content string         `db:"entry_content"`
	Tags    sql.NullString `db:"tags"`
}

// LoadSnapshot reads every entry with its tags, newest first. The tag
// table and the view are read in one transaction.
//
// A row whose tag list references an unknown tag or is malformed is still
// returned, with Tags left nil, and reported in the DecodeError slice.
func (s *Store) LoadSnapshot(ctx context.Context) ([]domain.Entry, []*DecodeError, error) {
	var (
		tags map[int64]domain.Tag
		rows []viewRow
	)
	err := dbx.ReadOnly(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if tags, err = loadTagMap(ctx, tx); err != nil {
			return err
		}
		err = tx.SelectContext(ctx, &rows, `
			SELECT entry_id, entry_created_time, entry_updated_time,
			       entry_title, entry_content, tags
			FROM entries_w_tags
			ORDER BY entry_created_time DESC, entry_id DESC
		`)
		if err != nil {
			return fmt.Errorf("load entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.Entry, 0, len(rows))
	var problems []*DecodeError
	for _, r := range rows {
		e, derr := decodeRow(r, tags)
		if derr != nil {
			problems = append(problems, derr)
		}
		entries = append(entries, e)
	}
	return entries, problems, nil
}

func decodeRow(r viewRow, tags map[int64]domain.Tag) (domain.Entry, *DecodeError) {
	e := domain.Entry{
		ID:        r.ID,
		CreatedAt: time.UnixMilli(r.Created),
		UpdatedAt: time.UnixMilli(r.Updated),
		Title:     r.Title,
		Content:   r.Content,
	}

	resolved, err := decodeTags(r.Tags, tags)
	if err != nil {
		err.EntryID = r.ID
		return e, err
	}
	e.Tags = resolved
	return e, nil
}

// decodeTags turns the view's colon-delimited tag ids into tags.
// NULL or empty means the entry has no tags.
func decodeTags(raw sql.NullString, tags map[int64]domain.Tag) ([]domain.Tag, *DecodeError) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	parts := strings.Split(raw.String, ":")
	out := make([]domain.Tag, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, &DecodeError{Token: p, Err: ErrMalformedTagList}
		}
		t, ok := tags[id]
		if !ok {
			return nil, &DecodeError{Token: p, Err: ErrUnknownTag}
		}
		out = append(out, t)
	}
	return out, nil
}
