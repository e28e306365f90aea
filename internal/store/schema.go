package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS view_state (
    view                 TEXT PRIMARY KEY,
    screen               TEXT NOT NULL,
    category             TEXT,
    tx_count             INTEGER NOT NULL,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS view_transactions (
    view                 TEXT NOT NULL REFERENCES view_state(view) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    payload              TEXT NOT NULL,
    PRIMARY KEY (view, seq)
);

CREATE INDEX IF NOT EXISTS idx_view_state_saved ON view_state(saved_at);
`
