package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS imports (
    id                   TEXT PRIMARY KEY,
    file_name            TEXT NOT NULL,
    format               TEXT NOT NULL,
    sha256               TEXT NOT NULL,
    rows                 INTEGER NOT NULL,
    replaced             INTEGER NOT NULL DEFAULT 0,
    ledger_size          INTEGER NOT NULL,
    imported_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_imports_sha256 ON imports(sha256);
CREATE INDEX IF NOT EXISTS idx_imports_imported_at ON imports(imported_at);
`
