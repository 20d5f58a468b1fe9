package store

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id                TEXT PRIMARY KEY,
    display_name      TEXT NOT NULL DEFAULT '',
    answer_count      INTEGER NOT NULL DEFAULT 0,
    flower_count      INTEGER NOT NULL DEFAULT 0,
    last_active_at    DATETIME NOT NULL,
    reliability_score REAL NOT NULL DEFAULT 0,
    trust_level       TEXT NOT NULL DEFAULT 'newbie'
);

CREATE INDEX IF NOT EXISTS idx_users_last_active ON users(last_active_at);
CREATE INDEX IF NOT EXISTS idx_users_trust_level ON users(trust_level);

CREATE TABLE IF NOT EXISTS questions (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL,
    content      TEXT NOT NULL DEFAULT '',
    category     TEXT NOT NULL DEFAULT '',
    asked_by     TEXT NOT NULL DEFAULT '',
    answer_count INTEGER NOT NULL DEFAULT 0,
    flower_count INTEGER NOT NULL DEFAULT 0,
    created_at   DATETIME NOT NULL,
    imported_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_questions_category ON questions(category);
CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions(created_at);
`
