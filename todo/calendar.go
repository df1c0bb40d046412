package todo

import "time"

// ItemKind tells todos and sub-todos apart in date views.
type ItemKind string

const (
	ItemTodo    ItemKind = "todo"
	ItemSubTodo ItemKind = "subtodo"
)

// DayItem is a todo or sub-todo due on a given day.
type DayItem struct {
	Kind      ItemKind `json:"kind"`
	TodoID    string   `json:"todo_id"`
	SubTodoID string   `json:"subtodo_id,omitempty"`
	Title     string   `json:"title"`
	// ParentTitle is set for sub-todos.
	ParentTitle string `json:"parent_title,omitempty"`
	// Priority is the todo's priority. Sub-todos inherit their parent's.
	Priority  Priority `json:"priority"`
	DueTime   string   `json:"due_time,omitempty"`
	Completed bool     `json:"completed"`
}

// ID returns the item's own identifier.
func (item DayItem) ID() string {
	if item.Kind == ItemSubTodo {
		return item.SubTodoID
	}
	return item.TodoID
}

// ItemsForDate returns every todo and sub-todo due on day. Items keep the
// order of todos, each parent ahead of its own sub-todos.
func ItemsForDate(todos []Todo, day Date) []DayItem {
	var items []DayItem
	for _, todo := range todos {
		if sameDay(todo.DueDate, day) {
			items = append(items, todoItem(todo))
		}
		for _, sub := range todo.SubTodos {
			if sameDay(sub.DueDate, day) {
				items = append(items, subTodoItem(todo, sub))
			}
		}
	}
	return items
}

func todoItem(todo Todo) DayItem {
	return DayItem{
		Kind:      ItemTodo,
		TodoID:    todo.ID,
		Title:     todo.Title,
		Priority:  todo.Priority,
		DueTime:   todo.DueTime,
		Completed: todo.Completed,
	}
}

func subTodoItem(parent Todo, sub SubTodo) DayItem {
	return DayItem{
		Kind:        ItemSubTodo,
		TodoID:      parent.ID,
		SubTodoID:   sub.ID,
		Title:       sub.Title,
		ParentTitle: parent.Title,
		Priority:    parent.Priority,
		DueTime:     sub.DueTime,
		Completed:   sub.Completed,
	}
}

// MaxDayMarkers is the number of priority markers shown on a calendar day.
const MaxDayMarkers = 3

// Markers decorates a calendar day cell.
type Markers struct {
	Colors   []string `json:"colors"`
	Overflow bool     `json:"overflow"`
	Count    int      `json:"count"`
}

// DayMarkers returns the priority colors of the first MaxDayMarkers items due
// on day, and whether more items exist.
func DayMarkers(todos []Todo, day Date) Markers {
	return markersFor(ItemsForDate(todos, day))
}

func markersFor(items []DayItem) Markers {
	markers := Markers{Count: len(items), Colors: []string{}}
	for i, item := range items {
		if i == MaxDayMarkers {
			markers.Overflow = true
			break
		}
		markers.Colors = append(markers.Colors, item.Priority.Color())
	}
	return markers
}

// Reminder is a todo due on the selected day, with its sub-todos due that
// same day.
type Reminder struct {
	Todo     Todo      `json:"todo"`
	SubTodos []SubTodo `json:"sub_todos"`
}

// Reminders lists what is due on a selected day.
type Reminders struct {
	Todos []Reminder `json:"todos"`
	// Orphans are sub-todos due on the day whose parent is not.
	Orphans []DayItem `json:"orphans"`
}

// IsEmpty reports whether nothing is due.
func (r Reminders) IsEmpty() bool {
	return len(r.Todos) == 0 && len(r.Orphans) == 0
}

// DayReminders groups the items due on day under their parents.
func DayReminders(todos []Todo, day Date) Reminders {
	reminders := Reminders{Todos: []Reminder{}, Orphans: []DayItem{}}
	for _, todo := range todos {
		var due []SubTodo
		for _, sub := range todo.SubTodos {
			if sameDay(sub.DueDate, day) {
				due = append(due, sub)
			}
		}
		if sameDay(todo.DueDate, day) {
			reminders.Todos = append(reminders.Todos, Reminder{Todo: todo, SubTodos: due})
			continue
		}
		for _, sub := range due {
			reminders.Orphans = append(reminders.Orphans, subTodoItem(todo, sub))
		}
	}
	return reminders
}

// MonthGrid returns the weeks covering month, each a row of seven days
// starting on weekStart. Leading and trailing cells belong to the adjacent
// months.
func MonthGrid(year int, month time.Month, weekStart time.Weekday) [][]Date {
	first := NewDate(year, month, 1)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	day := first.AddDays(-offset)

	var weeks [][]Date
	for {
		week := make([]Date, 7)
		for i := range week {
			week[i] = day
			day = day.AddDays(1)
		}
		weeks = append(weeks, week)
		if day.Month != month || day.Year != year {
			break
		}
	}
	return weeks
}

// MonthMarkers returns the markers for every day of month that has items.
func MonthMarkers(todos []Todo, year int, month time.Month) map[Date]Markers {
	byDay := map[Date][]DayItem{}
	// Walk once in source order so each day's items match ItemsForDate.
	for _, todo := range todos {
		if todo.DueDate != nil && inMonth(*todo.DueDate, year, month) {
			byDay[*todo.DueDate] = append(byDay[*todo.DueDate], todoItem(todo))
		}
		for _, sub := range todo.SubTodos {
			if sub.DueDate != nil && inMonth(*sub.DueDate, year, month) {
				byDay[*sub.DueDate] = append(byDay[*sub.DueDate], subTodoItem(todo, sub))
			}
		}
	}

	markers := make(map[Date]Markers, len(byDay))
	for day, items := range byDay {
		markers[day] = markersFor(items)
	}
	return markers
}

func inMonth(d Date, year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}
