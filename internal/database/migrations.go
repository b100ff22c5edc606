package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1AlmanacYears,
	2: migrationV2AlmanacImports,
}

// migrationV1AlmanacYears stores one row per BS year with its twelve month
// lengths. Years must stay contiguous; that is enforced in Go, not SQL.
const migrationV1AlmanacYears = `
-- Migration 001: almanac years

CREATE TABLE IF NOT EXISTS almanac_years (
    year INTEGER PRIMARY KEY,

    m1  INTEGER NOT NULL CHECK (m1  BETWEEN 29 AND 32),
    m2  INTEGER NOT NULL CHECK (m2  BETWEEN 29 AND 32),
    m3  INTEGER NOT NULL CHECK (m3  BETWEEN 29 AND 32),
    m4  INTEGER NOT NULL CHECK (m4  BETWEEN 29 AND 32),
    m5  INTEGER NOT NULL CHECK (m5  BETWEEN 29 AND 32),
    m6  INTEGER NOT NULL CHECK (m6  BETWEEN 29 AND 32),
    m7  INTEGER NOT NULL CHECK (m7  BETWEEN 29 AND 32),
    m8  INTEGER NOT NULL CHECK (m8  BETWEEN 29 AND 32),
    m9  INTEGER NOT NULL CHECK (m9  BETWEEN 29 AND 32),
    m10 INTEGER NOT NULL CHECK (m10 BETWEEN 29 AND 32),
    m11 INTEGER NOT NULL CHECK (m11 BETWEEN 29 AND 32),
    m12 INTEGER NOT NULL CHECK (m12 BETWEEN 29 AND 32),

    -- Where the row came from: "embedded", a file name, "api"
    source TEXT NOT NULL,

    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// migrationV2AlmanacImports audits bulk replacements of the almanac.
const migrationV2AlmanacImports = `
-- Migration 002: almanac import log

CREATE TABLE IF NOT EXISTS almanac_imports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Random identifier reported to the caller
    import_id TEXT NOT NULL UNIQUE,

    source TEXT NOT NULL,
    years INTEGER NOT NULL,
    min_year INTEGER NOT NULL,
    max_year INTEGER NOT NULL,

    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_almanac_imports_imported
    ON almanac_imports(imported_at);
`
