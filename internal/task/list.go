package task

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"taskd/internal/model"
)

// List owns the canonical in-memory collection. Every command runs under
// one mutex so its validate-mutate-persist-notify sequence completes
// before the next command begins; interleaving two commands would lose
// one of their writes on the whole-collection overwrite.
type List struct {
	mu          sync.Mutex
	store       *Store
	tasks       []model.Task
	subs        []func([]model.Task)
	loadWarning error
}

// NewList loads the collection exactly once and returns a ready
// controller; there is no separate uninitialized state. A corrupt payload
// is recovered as an empty collection and kept as a warning (see
// LoadWarning) rather than swallowed. Any other load failure aborts
// construction.
func NewList(ctx context.Context, store *Store) (*List, error) {
	l := &List{store: store}

	tasks, err := store.Load(ctx)
	if err != nil {
		var corrupt *CorruptError
		if !errors.As(err, &corrupt) {
			return nil, err
		}
		l.loadWarning = err
		tasks = []model.Task{}
	}
	l.tasks = tasks
	return l, nil
}

// LoadWarning reports the CorruptError recovered at construction, if any.
func (l *List) LoadWarning() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadWarning
}

// Tasks returns a snapshot of the collection in display order.
func (l *List) Tasks() []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.tasks)
}

// Subscribe registers fn to be called with a snapshot after every
// successful mutation, and again after a rollback. Callbacks run
// synchronously on the command's goroutine while the list lock is held:
// fn must work from the snapshot it is handed and must not call back
// into the List, or it will deadlock.
func (l *List) Subscribe(fn func([]model.Task)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
}

func (l *List) notifyLocked() {
	snapshot := slices.Clone(l.tasks)
	for _, fn := range l.subs {
		fn(snapshot)
	}
}

// commitLocked swaps in next, persists it, and notifies. A failed save
// restores the previous collection and re-notifies, so memory never
// outlives a failed write.
func (l *List) commitLocked(ctx context.Context, next []model.Task) error {
	prev := l.tasks
	l.tasks = next
	if err := l.store.Save(ctx, next); err != nil {
		l.tasks = prev
		l.notifyLocked()
		return err
	}
	l.notifyLocked()
	return nil
}

// Add creates a task and prepends it, newest first.
func (l *List) Add(ctx context.Context, title, description string) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := model.New(title, description)
	if t.Title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	next := make([]model.Task, 0, len(l.tasks)+1)
	next = append(next, t)
	next = append(next, l.tasks...)
	if err := l.commitLocked(ctx, next); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Edit replaces the task in place, keeping its position. Unset overrides
// keep the prior values; id and creation time can never change.
func (l *List) Edit(ctx context.Context, id string, o model.Overrides) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	t := l.tasks[i].With(o)
	if t.Title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	next := slices.Clone(l.tasks)
	next[i] = t
	if err := l.commitLocked(ctx, next); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Toggle flips the completed flag.
func (l *List) Toggle(ctx context.Context, id string) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	completed := !l.tasks[i].Completed
	t := l.tasks[i].With(model.Overrides{Completed: &completed})
	next := slices.Clone(l.tasks)
	next[i] = t
	if err := l.commitLocked(ctx, next); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Remove deletes the task if present. A missing id is a successful no-op
// so repeated deletes stay idempotent.
func (l *List) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return nil
	}
	next := slices.Delete(slices.Clone(l.tasks), i, i+1)
	return l.commitLocked(ctx, next)
}

// Move takes the task at from out of the list and reinserts it at to,
// where to is a position in the list after removal.
func (l *List) Move(ctx context.Context, from, to int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d with %d tasks", ErrIndexOutOfRange, from, to, n)
	}
	if from == to {
		return nil
	}
	next := slices.Clone(l.tasks)
	t := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, t)
	return l.commitLocked(ctx, next)
}

// Derive projects the current collection through the package-level
// Derive.
func (l *List) Derive(filter Filter, query string) []model.Task {
	return Derive(l.Tasks(), filter, query)
}

func (l *List) indexLocked(id string) int {
	return slices.IndexFunc(l.tasks, func(t model.Task) bool { return t.ID == id })
}
