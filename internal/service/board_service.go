package service

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	dom "github.com/Anaswara-Rajesh/kanban-board/internal/domain"
	"github.com/Anaswara-Rajesh/kanban-board/internal/repo"
)

const defaultPersistTimeout = 5 * time.Second

// ErrPersist marks a failed write-through. The in-memory change is kept.
var ErrPersist = errors.New("failed to persist board")

// ColumnView is one column of the board as rendered to clients.
type ColumnView struct {
	Column dom.Column
	Title  string
	Count  int
	Tasks  []dom.Task
}

// BoardService owns the live task collection. Every operation replaces the
// snapshot under one lock and then writes the whole board through the repo,
// no-ops included.
type BoardService struct {
	repo    repo.TaskRepo
	logger  log.FieldLogger
	newID   dom.IDFunc
	timeout time.Duration

	mu    sync.Mutex
	tasks dom.Collection
	sf    singleflight.Group
}

// Option tweaks a BoardService.
type Option func(*BoardService)

// WithIDFunc overrides task id generation.
func WithIDFunc(f dom.IDFunc) Option {
	return func(s *BoardService) { s.newID = f }
}

// WithPersistTimeout bounds each load/save call.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *BoardService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewBoardService(r repo.TaskRepo, logger log.FieldLogger, opts ...Option) *BoardService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &BoardService{
		repo:    r,
		logger:  logger,
		newID:   dom.NewID,
		timeout: defaultPersistTimeout,
		tasks:   dom.Collection{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads the persisted board. Call once at startup.
func (s *BoardService) Init(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Reload replaces the snapshot with the persisted board. Concurrent calls
// share one load, which holds the board lock until the snapshot is installed
// and is not tied to the cancellation of the first caller.
func (s *BoardService) Reload(ctx context.Context) (dom.Collection, error) {
	v, err, _ := s.sf.Do("reload", func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		s.mu.Lock()
		defer s.mu.Unlock()
		c, err := s.repo.Load(lctx)
		if err != nil {
			return nil, err
		}
		s.tasks = c
		s.logger.WithField("tasks", len(c)).Info("board loaded")
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.(dom.Collection)), nil
}

// Add creates a task in the To Do column.
func (s *BoardService) Add(ctx context.Context, title, desc string) (dom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, t, opErr := s.tasks.Add(title, desc, s.newID)
	return t, s.commit(ctx, "add", next, opErr)
}

// Edit replaces title and description of a task.
func (s *BoardService) Edit(ctx context.Context, id, title, desc string) (dom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, opErr := s.tasks.Edit(id, title, desc)
	t, _ := next.Find(id)
	return t, s.commit(ctx, "edit", next, opErr)
}

// Delete removes a task. Confirmation is the caller's responsibility.
func (s *BoardService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, opErr := s.tasks.Delete(id)
	return s.commit(ctx, "delete", next, opErr)
}

// Move puts a task into another column.
func (s *BoardService) Move(ctx context.Context, id string, col dom.Column) (dom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, opErr := s.tasks.Move(id, col)
	t, _ := next.Find(id)
	return t, s.commit(ctx, "move", next, opErr)
}

// Tasks returns a copy of the whole board in insertion order.
func (s *BoardService) Tasks() dom.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.tasks)
}

// Column returns the tasks of one column.
func (s *BoardService) Column(col dom.Column) []dom.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.FilterByColumn(col)
}

// Board returns all three columns in display order.
func (s *BoardService) Board() []ColumnView {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := s.tasks.Counts()
	views := make([]ColumnView, 0, len(counts))
	for _, col := range dom.Columns() {
		views = append(views, ColumnView{
			Column: col,
			Title:  col.Title(),
			Count:  counts[col],
			Tasks:  s.tasks.FilterByColumn(col),
		})
	}
	return views
}

// commit installs next as the snapshot and writes it through. The domain
// error wins over a persistence error since the caller's request was rejected.
// Must be called with s.mu held.
func (s *BoardService) commit(ctx context.Context, op string, next dom.Collection, opErr error) error {
	s.tasks = next
	entry := s.logger.WithField("op", op)
	if opErr != nil {
		entry.WithError(opErr).Debug("board operation ignored")
	}

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.repo.Save(sctx, next); err != nil {
		entry.WithError(err).Error("failed to persist board")
		if opErr != nil {
			return opErr
		}
		return errors.Join(ErrPersist, err)
	}
	return opErr
}

func clone(c dom.Collection) dom.Collection {
	out := make(dom.Collection, len(c))
	copy(out, c)
	return out
}
