package repo

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	dom "github.com/Anaswara-Rajesh/kanban-board/internal/domain"
)

const (
	// DefaultKey is the slot the board lives under.
	DefaultKey = "kanban-tasks"

	corruptSuffix = ".corrupt"
)

// TaskRepo loads and saves the whole board as one value.
type TaskRepo interface {
	Load(ctx context.Context) (dom.Collection, error)
	Save(ctx context.Context, c dom.Collection) error
}

// KVTaskRepo implements TaskRepo on top of a single KV slot.
type KVTaskRepo struct {
	kv     KV
	key    string
	logger log.FieldLogger
}

// NewKVTaskRepo returns a repo storing the board under key. Empty key means DefaultKey.
func NewKVTaskRepo(kv KV, key string, logger log.FieldLogger) *KVTaskRepo {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &KVTaskRepo{kv: kv, key: key, logger: logger}
}

func (r *KVTaskRepo) Key() string { return r.key }

// Load returns the stored board, or an empty one when nothing usable is stored.
// A corrupt value is copied aside under "<key>.corrupt" and never propagated;
// only backend read failures are returned.
func (r *KVTaskRepo) Load(ctx context.Context) (dom.Collection, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return dom.Collection{}, nil
	}
	c, err := ParseCollection(raw)
	if err != nil {
		fields := log.Fields{"key": r.key, "backup": r.key + corruptSuffix}
		r.logger.WithError(err).WithFields(fields).Warn("stored board is unreadable, starting empty")
		if berr := r.kv.Set(ctx, r.key+corruptSuffix, raw); berr != nil {
			r.logger.WithError(berr).WithFields(fields).Error("failed to back up unreadable board")
		}
		return dom.Collection{}, nil
	}
	r.logger.WithFields(log.Fields{"key": r.key, "tasks": len(c)}).Debug("board loaded")
	return c, nil
}

// Save overwrites the slot with the full board.
func (r *KVTaskRepo) Save(ctx context.Context, c dom.Collection) error {
	data, err := EncodeCollection(c)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}
