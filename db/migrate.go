package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Схема создаётся идемпотентно при старте. Имена игроков в teams — снимок,
// а не внешний ключ: переименование или удаление игрока не переписывает
// историю. Каскады: tournaments → teams/matches, matches → rounds.
// matches.seq фиксирует порядок вставки для сборки пар следующей стадии.
const schema = `
CREATE TABLE IF NOT EXISTS tournaments (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    format     TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'created',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS players (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL UNIQUE,
    matches_played INTEGER NOT NULL DEFAULT 0,
    matches_won    INTEGER NOT NULL DEFAULT 0,
    total_points   INTEGER NOT NULL DEFAULT 0,
    avatar_key     TEXT
);

CREATE TABLE IF NOT EXISTS teams (
    id            TEXT PRIMARY KEY,
    tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    player1_name  TEXT NOT NULL,
    player2_name  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
    id            TEXT PRIMARY KEY,
    tournament_id TEXT NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
    round_number  INTEGER NOT NULL DEFAULT 0,
    team_a_id     TEXT NOT NULL REFERENCES teams(id),
    team_b_id     TEXT NOT NULL REFERENCES teams(id),
    score_a       INTEGER NOT NULL DEFAULT 0,
    score_b       INTEGER NOT NULL DEFAULT 0,
    is_finished   BOOLEAN NOT NULL DEFAULT FALSE,
    seq           BIGSERIAL,
    CHECK (team_a_id <> team_b_id)
);

CREATE TABLE IF NOT EXISTS rounds (
    id          TEXT PRIMARY KEY,
    match_id    TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
    round_index INTEGER NOT NULL,
    score_a     INTEGER NOT NULL,
    score_b     INTEGER NOT NULL,
    belote_a    BOOLEAN NOT NULL DEFAULT FALSE,
    belote_b    BOOLEAN NOT NULL DEFAULT FALSE,
    capot_a     BOOLEAN NOT NULL DEFAULT FALSE,
    capot_b     BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (match_id, round_index)
);

CREATE INDEX IF NOT EXISTS idx_teams_tournament  ON teams (tournament_id);
CREATE INDEX IF NOT EXISTS idx_matches_round     ON matches (tournament_id, round_number, seq);
CREATE INDEX IF NOT EXISTS idx_rounds_match      ON rounds (match_id, round_index);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
