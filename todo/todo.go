package todo

import "time"

// Todo is a top-level task.
type Todo struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Color       string     `json:"color,omitempty"`
	DueDate     *Date      `json:"due_date,omitempty"`
	DueTime     string     `json:"due_time,omitempty"`
	Tags        []string   `json:"tags"`
	SubTodos    []SubTodo  `json:"sub_todos"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SubTodo is a child task owned by exactly one Todo.
type SubTodo struct {
	ID        string    `json:"id"`
	TodoID    string    `json:"todo_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	DueDate   *Date     `json:"due_date,omitempty"`
	DueTime   string    `json:"due_time,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SubTodo returns the sub-todo with id and its index.
func (t Todo) SubTodo(id string) (SubTodo, int, bool) {
	for i, sub := range t.SubTodos {
		if sub.ID == id {
			return sub, i, true
		}
	}
	return SubTodo{}, -1, false
}

// HasTag reports whether tag is one of the todo's tags.
func (t Todo) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Find returns the todo with id from todos.
func Find(todos []Todo, id string) (Todo, bool) {
	for _, todo := range todos {
		if todo.ID == id {
			return todo, true
		}
	}
	return Todo{}, false
}

// Draft describes a todo to create.
type Draft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Color       string     `json:"color,omitempty"`
	DueDate     *Date      `json:"due_date,omitempty"`
	DueTime     string     `json:"due_time,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	SubTodos    []SubDraft `json:"sub_todos,omitempty"`
}

// SubDraft describes a sub-todo to create.
type SubDraft struct {
	Title   string `json:"title"`
	DueDate *Date  `json:"due_date,omitempty"`
	DueTime string `json:"due_time,omitempty"`
}

// TodoFields holds the stored fields of a new todo record.
type TodoFields struct {
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	Color       string
	DueDate     *Date
	DueTime     string
	Tags        []string
	CompletedAt *time.Time
}

// SubTodoFields holds the stored fields of a new sub-todo record.
type SubTodoFields struct {
	Title     string
	Completed bool
	DueDate   *Date
	DueTime   string
}

// TodoPatch lists the todo fields to change. Unset fields are left untouched.
type TodoPatch struct {
	Title       Field[string]    `json:"title,omitzero"`
	Description Field[string]    `json:"description,omitzero"`
	Completed   Field[bool]      `json:"completed,omitzero"`
	Priority    Field[Priority]  `json:"priority,omitzero"`
	Color       Field[string]    `json:"color,omitzero"`
	DueDate     Field[Date]      `json:"due_date,omitzero"`
	DueTime     Field[string]    `json:"due_time,omitzero"`
	Tags        Field[[]string]  `json:"tags,omitzero"`
	CompletedAt Field[time.Time] `json:"completed_at,omitzero"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return !p.Title.Touched() && !p.Description.Touched() && !p.Completed.Touched() &&
		!p.Priority.Touched() && !p.Color.Touched() && !p.DueDate.Touched() &&
		!p.DueTime.Touched() && !p.Tags.Touched() && !p.CompletedAt.Touched()
}

// SubTodoPatch lists the sub-todo fields to change.
type SubTodoPatch struct {
	Title     Field[string] `json:"title,omitzero"`
	Completed Field[bool]   `json:"completed,omitzero"`
	DueDate   Field[Date]   `json:"due_date,omitzero"`
	DueTime   Field[string] `json:"due_time,omitzero"`
}

// IsEmpty reports whether the patch changes nothing.
func (p SubTodoPatch) IsEmpty() bool {
	return !p.Title.Touched() && !p.Completed.Touched() && !p.DueDate.Touched() && !p.DueTime.Touched()
}

// Apply returns t with the patch applied.
func (p TodoPatch) Apply(t Todo) Todo {
	if v, ok := p.Title.Value(); ok {
		t.Title = v
	}
	if p.Description.Touched() {
		t.Description, _ = p.Description.Value()
	}
	if v, ok := p.Completed.Value(); ok {
		t.Completed = v
	}
	if v, ok := p.Priority.Value(); ok {
		t.Priority = v
	}
	if p.Color.Touched() {
		t.Color, _ = p.Color.Value()
	}
	if p.DueDate.Touched() {
		t.DueDate = p.DueDate.Ptr()
	}
	if p.DueTime.Touched() {
		t.DueTime, _ = p.DueTime.Value()
	}
	if p.Tags.Touched() {
		tags, _ := p.Tags.Value()
		t.Tags = append([]string{}, tags...)
	}
	if p.CompletedAt.Touched() {
		t.CompletedAt = p.CompletedAt.Ptr()
	}
	return t
}

// Apply returns s with the patch applied.
func (p SubTodoPatch) Apply(s SubTodo) SubTodo {
	if v, ok := p.Title.Value(); ok {
		s.Title = v
	}
	if v, ok := p.Completed.Value(); ok {
		s.Completed = v
	}
	if p.DueDate.Touched() {
		s.DueDate = p.DueDate.Ptr()
	}
	if p.DueTime.Touched() {
		s.DueTime, _ = p.DueTime.Value()
	}
	return s
}
