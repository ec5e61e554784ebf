package auth

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/bizdesk/internal/common"
)

// KeyInfo describes one persisted key. Values are never exposed since the
// credential record holds passwords.
type KeyInfo struct {
	Key  string
	Size int
}

// StoredKeys lists the keys currently held by the medium, sorted by name.
func (e *Engine) StoredKeys(ctx context.Context) ([]KeyInfo, error) {
	e.op.Lock()
	defer e.op.Unlock()

	m, err := e.kv.List(ctx)
	if err != nil {
		e.log.Error(ctx, "listing stored keys failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrStorageRead, err)
	}

	keys := slices.Sorted(maps.Keys(m))
	out := make([]KeyInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyInfo{Key: k, Size: len(m[k])})
	}
	return out, nil
}
