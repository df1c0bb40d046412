package sqlitestore

var schema = []string{
	`CREATE TABLE IF NOT EXISTS todos (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		completed INTEGER NOT NULL DEFAULT 0,
		priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
		color TEXT,
		due_date TEXT,
		due_time TEXT,
		tags TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		completed_at TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_todos_user_created ON todos(user_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS sub_todos (
		id TEXT PRIMARY KEY,
		todo_id TEXT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		due_date TEXT,
		due_time TEXT,
		created_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sub_todos_todo ON sub_todos(todo_id, created_at);`,
}
