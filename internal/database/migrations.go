package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1ExportSchema,
}

// migrationV1ExportSchema creates the snapshot tables. A run is one export of
// the whole month table; its rows are the descriptors in table order.
const migrationV1ExportSchema = `
-- Migration 001: Export store

CREATE TABLE IF NOT EXISTS export_runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    record_count INTEGER NOT NULL,

    -- Month key of the anchor record, e.g. "17/2/1/0"
    anchor TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS month_descriptors (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,

    rabjung INTEGER NOT NULL CHECK (rabjung BETWEEN 1 AND 20),
    tib_year INTEGER NOT NULL CHECK (tib_year BETWEEN 1 AND 60),
    tib_month INTEGER NOT NULL CHECK (tib_month BETWEEN 1 AND 12),
    month_flag INTEGER NOT NULL CHECK (month_flag IN (0, 1, 2)),

    elapsed_month_index INTEGER NOT NULL,

    -- 0 means no such day
    skip1 INTEGER NOT NULL DEFAULT 0,
    skip2 INTEGER NOT NULL DEFAULT 0,
    double1 INTEGER NOT NULL DEFAULT 0,
    double2 INTEGER NOT NULL DEFAULT 0,

    -- YYYY-MM-DD
    western_start_date TEXT NOT NULL,

    PRIMARY KEY (run_id, seq),
    FOREIGN KEY (run_id) REFERENCES export_runs(id) ON DELETE CASCADE,
    UNIQUE (run_id, rabjung, tib_year, tib_month, month_flag)
);

CREATE INDEX IF NOT EXISTS idx_month_descriptors_start
    ON month_descriptors(run_id, western_start_date);
`
