package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	dom "github.com/Anaswara-Rajesh/kanban-board/internal/domain"
)

// FormatVersion is written into every saved board.
const FormatVersion = 1

var (
	ErrCorrupt            = errors.New("stored board is corrupt")
	ErrUnsupportedVersion = errors.New("unsupported board format version")
)

type taskRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Column      string `json:"column"`
}

type boardEnvelope struct {
	Version *int         `json:"version"`
	Tasks   []taskRecord `json:"tasks"`
}

// EncodeCollection serializes the board in the versioned layout.
func EncodeCollection(c dom.Collection) (string, error) {
	v := FormatVersion
	env := boardEnvelope{Version: &v, Tasks: make([]taskRecord, len(c))}
	for i, t := range c {
		env.Tasks[i] = taskRecord{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Column:      string(t.Column),
		}
	}
	return sonic.ConfigStd.MarshalToString(env)
}

// ParseCollection decodes a stored board. Both the versioned envelope and the
// legacy bare array are accepted; a missing description reads as empty.
func ParseCollection(raw string) (dom.Collection, error) {
	raw = strings.TrimSpace(raw)
	var records []taskRecord
	switch {
	case strings.HasPrefix(raw, "["):
		if err := sonic.ConfigStd.UnmarshalFromString(raw, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	case strings.HasPrefix(raw, "{"):
		var env boardEnvelope
		if err := sonic.ConfigStd.UnmarshalFromString(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if env.Version == nil {
			return nil, fmt.Errorf("%w: missing version", ErrCorrupt)
		}
		if *env.Version != FormatVersion {
			return nil, fmt.Errorf("%w: %w %d", ErrCorrupt, ErrUnsupportedVersion, *env.Version)
		}
		records = env.Tasks
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", ErrCorrupt)
	}

	out := make(dom.Collection, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: task %d has no id", ErrCorrupt, i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate task id %q", ErrCorrupt, r.ID)
		}
		seen[r.ID] = struct{}{}
		if strings.TrimSpace(r.Title) == "" {
			return nil, fmt.Errorf("%w: task %q has an empty title", ErrCorrupt, r.ID)
		}
		col, err := dom.ParseColumn(r.Column)
		if err != nil {
			return nil, fmt.Errorf("%w: task %q has column %q", ErrCorrupt, r.ID, r.Column)
		}
		out = append(out, dom.Task{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Column:      col,
		})
	}
	return out, nil
}
