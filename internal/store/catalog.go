package store

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

// IndexInfo describes one index directory under an index root.
type IndexInfo struct {
	Name      string
	Path      string
	CreatedAt time.Time
}

// ListIndexes returns the index directories under root, newest first.
// Entries whose names do not follow IndexName are ignored.
func ListIndexes(root string) ([]IndexInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []IndexInfo
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), IndexPrefix) {
			continue
		}
		secs, err := strconv.ParseInt(strings.TrimPrefix(e.Name(), IndexPrefix), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, IndexInfo{
			Name:      e.Name(),
			Path:      filepath.Join(root, e.Name()),
			CreatedAt: time.Unix(secs, 0),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// LatestIndex returns the path of the newest index under root.
func LatestIndex(root string) (string, error) {
	indexes, err := ListIndexes(root)
	if err != nil {
		return "", perrors.New(perrors.ErrCodeIndexNotFound, "cannot list index root", err).
			WithDetail("root", root)
	}
	if len(indexes) == 0 {
		return "", perrors.New(perrors.ErrCodeIndexNotFound, "no indexes found", nil).
			WithDetail("root", root).
			WithSuggestion("Run 'pulse index' first")
	}
	return indexes[0].Path, nil
}
