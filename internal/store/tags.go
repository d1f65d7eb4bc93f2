package store

import (
	"context"
	"fmt"

	"github.com/pbaille/journal/internal/dbx"
	"github.com/pbaille/journal/internal/domain"
)

// GetOrCreateTag finds a tag by name or creates it, returning its id.
// Uniqueness is enforced by the UNIQUE(tag) constraint.
func (s *Store) GetOrCreateTag(ctx context.Context, tx dbx.DBTX, name string) (int64, error) {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO tags (tag) VALUES (?) ON CONFLICT(tag) DO NOTHING",
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("insert tag: %w", err)
	}

	var id int64
	if err := tx.GetContext(ctx, &id, "SELECT tag_id FROM tags WHERE tag = ?", name); err != nil {
		return 0, fmt.Errorf("find tag: %w", err)
	}
	return id, nil
}

// PruneOrphanTags deletes every tag no entry refers to anymore and
// returns how many were removed.
func (s *Store) PruneOrphanTags(ctx context.Context, tx dbx.DBTX) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"DELETE FROM tags WHERE tag_id NOT IN (SELECT tag_id FROM entry_tags)",
	)
	if err != nil {
		return 0, fmt.Errorf("prune tags: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune tags: %w", err)
	}
	if n > 0 {
		s.log.Debug(ctx, "orphan tags pruned", "count", n)
	}
	return n, nil
}

type tagRow struct {
	ID   int64  `db:"tag_id"`
	Name string `db:"tag"`
}

type tagCountRow struct {
	tagRow
	Entries int `db:"entries"`
}

// ListTags returns all tags by name with the number of entries using them
func (s *Store) ListTags(ctx context.Context) ([]domain.TagCount, error) {
	var rows []tagCountRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.tag_id, t.tag, COUNT(et.entry_id) AS entries
		FROM tags t
		LEFT JOIN entry_tags et ON et.tag_id = t.tag_id
		GROUP BY t.tag_id, t.tag
		ORDER BY t.tag
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tags := make([]domain.TagCount, len(rows))
	for i, r := range rows {
		tags[i] = domain.TagCount{
			Tag:     domain.Tag{ID: r.ID, Name: r.Name},
			Entries: r.Entries,
		}
	}
	return tags, nil
}

func loadTagMap(ctx context.Context, tx dbx.DBTX) (map[int64]domain.Tag, error) {
	var rows []tagRow
	if err := tx.SelectContext(ctx, &rows, "SELECT tag_id, tag FROM tags"); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	tags := make(map[int64]domain.Tag, len(rows))
	for _, r := range rows {
		tags[r.ID] = domain.Tag{ID: r.ID, Name: r.Name}
	}
	return tags, nil
}
