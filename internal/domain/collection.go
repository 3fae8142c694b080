package domain

import "strings"

const maxIDAttempts = 8

// Collection is the insertion-ordered set of tasks on the board.
// Operations never modify the receiver: each returns a fresh slice, and on
// error the receiver itself is returned unchanged.
type Collection []Task

// Add appends a new task to the To Do column.
func (c Collection) Add(title, description string, newID IDFunc) (Collection, Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return c, Task{}, ErrEmptyTitle
	}
	t := Task{
		ID:          c.freshID(newID),
		Title:       title,
		Description: strings.TrimSpace(description),
		Column:      ColumnTodo,
	}
	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	return append(out, t), t, nil
}

// Edit replaces the title and description of the task with the given id.
// Position and column are kept.
func (c Collection) Edit(id, title, description string) (Collection, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return c, ErrEmptyTitle
	}
	i := c.index(id)
	if i < 0 {
		return c, ErrNotFound
	}
	out := c.clone()
	out[i].Title = title
	out[i].Description = strings.TrimSpace(description)
	return out, nil
}

// Delete removes the task with the given id.
func (c Collection) Delete(id string) (Collection, error) {
	i := c.index(id)
	if i < 0 {
		return c, ErrNotFound
	}
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...), nil
}

// Move sets the column of the task with the given id. Order is unchanged.
func (c Collection) Move(id string, target Column) (Collection, error) {
	if !target.Valid() {
		return c, ErrInvalidColumn
	}
	i := c.index(id)
	if i < 0 {
		return c, ErrNotFound
	}
	out := c.clone()
	out[i].Column = target
	return out, nil
}

// FilterByColumn returns, in insertion order, the tasks sitting in col.
func (c Collection) FilterByColumn(col Column) []Task {
	out := []Task{}
	for _, t := range c {
		if t.Column == col {
			out = append(out, t)
		}
	}
	return out
}

func (c Collection) Find(id string) (Task, bool) {
	i := c.index(id)
	if i < 0 {
		return Task{}, false
	}
	return c[i], true
}

// Counts returns the number of tasks per column.
func (c Collection) Counts() map[Column]int {
	counts := make(map[Column]int, 3)
	for _, col := range Columns() {
		counts[col] = 0
	}
	for _, t := range c {
		counts[t.Column]++
	}
	return counts
}

func (c Collection) index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Collection) clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

func (c Collection) freshID(newID IDFunc) string {
	if newID != nil {
		for i := 0; i < maxIDAttempts; i++ {
			if id := newID(); id != "" && c.index(id) < 0 {
				return id
			}
		}
	}
	for {
		if id := NewID(); c.index(id) < 0 {
			return id
		}
	}
}
