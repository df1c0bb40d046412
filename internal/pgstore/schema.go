package pgstore

// Schema creates the tables the store reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS todos (
	id uuid PRIMARY KEY,
	user_id text NOT NULL,
	title text NOT NULL,
	description text,
	completed boolean NOT NULL DEFAULT false,
	priority text NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'urgent')),
	color text,
	due_date date,
	due_time text,
	tags text[] NOT NULL DEFAULT '{}',
	created_at timestamptz NOT NULL DEFAULT now(),
	completed_at timestamptz
);

CREATE INDEX IF NOT EXISTS idx_todos_user_created ON todos (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS sub_todos (
	id uuid PRIMARY KEY,
	todo_id uuid NOT NULL REFERENCES todos (id) ON DELETE CASCADE,
	title text NOT NULL,
	completed boolean NOT NULL DEFAULT false,
	due_date date,
	due_time text,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sub_todos_todo ON sub_todos (todo_id, created_at);
`
