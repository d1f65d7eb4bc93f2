package journal

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// corruptTagLink points an entry at a tag id that does not exist, through
// a second connection with foreign keys off.
func corruptTagLink(t *testing.T, path string, entryID int64) {
	t.Helper()
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=off&_busy_timeout=5000")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO entry_tags (entry_id, tag_id, position) VALUES (?, 424242, 9)", entryID)
	require.NoError(t, err)
}
