package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pbaille/journal/internal/dbx"
	"github.com/pbaille/journal/internal/domain"
)

// InsertEntry creates a new entry row with both timestamps set to now
// and returns its id.
func (s *Store) InsertEntry(ctx context.Context, tx dbx.DBTX, title, content string, now time.Time) (int64, error) {
	ms := now.UnixMilli()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO entries (entry_created_time, entry_updated_time, entry_title, entry_content)
		 VALUES (?, ?, ?, ?)`,
		ms, ms, title, content,
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

// UpdateEntry replaces title and content and refreshes the update time.
// The update time never goes below the creation time.
func (s *Store) UpdateEntry(ctx context.Context, tx dbx.DBTX, id int64, title, content string, now time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE entries
		 SET entry_title = ?, entry_content = ?,
		     entry_updated_time = MAX(?, entry_created_time, entry_updated_time)
		 WHERE entry_id = ?`,
		title, content, now.UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return expectOneRow(res.RowsAffected, id)
}

// DeleteEntry removes the entry, its tag associations and any tag left
// without entries.
func (s *Store) DeleteEntry(ctx context.Context, tx dbx.DBTX, id int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM entry_tags WHERE entry_id = ?", id); err != nil {
		return fmt.Errorf("delete entry tags: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE entry_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if err := expectOneRow(res.RowsAffected, id); err != nil {
		return err
	}

	_, err = s.PruneOrphanTags(ctx, tx)
	return err
}

// ReplaceEntryTags makes names the exact, ordered tag set of the entry.
// Tags already attached keep their association; only the difference is
// written. Orphan tags are pruned if anything was detached.
func (s *Store) ReplaceEntryTags(ctx context.Context, tx dbx.DBTX, entryID int64, names []string) error {
	names = domain.NormalizeTags(names)

	var current []tagRow
	err := tx.SelectContext(ctx, &current, `
		SELECT t.tag_id, t.tag
		FROM entry_tags et
		JOIN tags t ON t.tag_id = et.tag_id
		WHERE et.entry_id = ?
	`, entryID)
	if err != nil {
		return fmt.Errorf("get entry tags: %w", err)
	}

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	attached := make(map[string]int64, len(current))
	removed := 0
	for _, t := range current {
		if _, ok := wanted[t.Name]; ok {
			attached[t.Name] = t.ID
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM entry_tags WHERE entry_id = ? AND tag_id = ?",
			entryID, t.ID,
		); err != nil {
			return fmt.Errorf("unlink entry tag: %w", err)
		}
		removed++
	}

	for pos, name := range names {
		if tagID, ok := attached[name]; ok {
			if _, err := tx.ExecContext(ctx,
				"UPDATE entry_tags SET position = ? WHERE entry_id = ? AND tag_id = ?",
				pos, entryID, tagID,
			); err != nil {
				return fmt.Errorf("reorder entry tag: %w", err)
			}
			continue
		}

		tagID, err := s.GetOrCreateTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO entry_tags (entry_id, tag_id, position) VALUES (?, ?, ?)",
			entryID, tagID, pos,
		); err != nil {
			return fmt.Errorf("link entry tag: %w", err)
		}
	}

	if removed > 0 {
		if _, err := s.PruneOrphanTags(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func expectOneRow(rowsAffected func() (int64, error), id int64) error {
	n, err := rowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return nil
}
