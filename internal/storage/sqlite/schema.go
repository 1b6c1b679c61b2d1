package sqlite

// schema defines the task bank tables. Assessment and analysis tables
// are insert-only; application code never issues UPDATE or DELETE
// against them.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	content TEXT NOT NULL,              -- JSON types.TaskContent
	category TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL DEFAULT 'medium',
	task_type TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',    -- JSON array
	domain TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	version INTEGER NOT NULL DEFAULT 1,
	status TEXT NOT NULL DEFAULT 'draft',
	quality_score REAL,
	contamination_score REAL,
	created_by TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category);
CREATE INDEX IF NOT EXISTS idx_tasks_task_type ON tasks(task_type);

CREATE TABLE IF NOT EXISTS quality_assessments (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL REFERENCES tasks(id),
	task_version INTEGER NOT NULL,
	overall_score REAL NOT NULL,
	payload TEXT NOT NULL,              -- JSON types.QualityAssessment
	assessed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_task
	ON quality_assessments(task_id, task_version, assessed_at);

CREATE TABLE IF NOT EXISTS contamination_analyses (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL REFERENCES tasks(id),
	task_version INTEGER NOT NULL,
	overall_risk TEXT NOT NULL,
	payload TEXT NOT NULL,              -- JSON types.ContaminationAnalysis
	analyzed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_task
	ON contamination_analyses(task_id, task_version, analyzed_at);

CREATE TABLE IF NOT EXISTS embeddings (
	task_id TEXT NOT NULL,
	task_version INTEGER NOT NULL,
	model TEXT NOT NULL DEFAULT '',
	vector BLOB NOT NULL,               -- little-endian float32
	created_at TEXT NOT NULL,
	PRIMARY KEY (task_id, task_version)
);
`
