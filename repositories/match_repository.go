package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/belote-club/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match references an invalid team or tournament")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Match, error)
	ListByRound(ctx context.Context, exec SQLExecutor, tournamentID string, roundNumber int) ([]*models.Match, error)
	Finish(ctx context.Context, exec SQLExecutor, id string, scoreA, scoreB int) error
	UpdateScores(ctx context.Context, exec SQLExecutor, id string, scoreA, scoreB int) error
	ListFinishedByPlayerName(ctx context.Context, exec SQLExecutor, playerName string) ([]models.PlayerMatchSide, error)
	Count(ctx context.Context) (int, error)
	CountFinished(ctx context.Context) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (id, tournament_id, round_number, team_a_id, team_b_id, score_a, score_b, is_finished)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`

	err := executor.QueryRowContext(ctx, query,
		m.ID, m.TournamentID, m.RoundNumber, m.TeamAID, m.TeamBID, m.ScoreA, m.ScoreB, m.IsFinished,
	).Scan(&m.Seq)
	return r.handleMatchError(err)
}

// Матчи всегда читаются вместе с составами обеих команд: страницам клуба
// нужны имена, а пересборка по отдельным запросам того не стоит.
const matchSelect = `
	SELECT m.id, m.tournament_id, m.round_number, m.team_a_id, m.team_b_id,
	       m.score_a, m.score_b, m.is_finished, m.seq,
	       ta.player1_name, ta.player2_name,
	       tb.player1_name, tb.player2_name
	FROM matches m
	JOIN teams ta ON m.team_a_id = ta.id
	JOIN teams tb ON m.team_b_id = tb.id`

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	teamA := &models.Team{}
	teamB := &models.Team{}
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.RoundNumber, &m.TeamAID, &m.TeamBID,
		&m.ScoreA, &m.ScoreB, &m.IsFinished, &m.Seq,
		&teamA.Player1Name, &teamA.Player2Name,
		&teamB.Player1Name, &teamB.Player2Name,
	)
	if err != nil {
		return nil, err
	}
	teamA.ID, teamA.TournamentID = m.TeamAID, m.TournamentID
	teamB.ID, teamB.TournamentID = m.TeamBID, m.TournamentID
	m.TeamA, m.TeamB = teamA, teamB
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := matchSelect + ` WHERE m.id = $1`

	m, err := scanMatch(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %s: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := matchSelect + `
	WHERE m.tournament_id = $1
	ORDER BY m.round_number ASC, m.seq ASC`

	return r.queryMatches(ctx, executor, query, tournamentID)
}

// ListByRound возвращает матчи одной стадии сетки в порядке вставки (seq):
// именно по этому порядку пары сопоставляются при продвижении.
func (r *postgresMatchRepository) ListByRound(ctx context.Context, exec SQLExecutor, tournamentID string, roundNumber int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := matchSelect + `
	WHERE m.tournament_id = $1 AND m.round_number = $2
	ORDER BY m.seq ASC`

	return r.queryMatches(ctx, executor, query, tournamentID, roundNumber)
}

func (r *postgresMatchRepository) Finish(ctx context.Context, exec SQLExecutor, id string, scoreA, scoreB int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET is_finished = TRUE, score_a = $1, score_b = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, scoreA, scoreB, id)
	if err != nil {
		return fmt.Errorf("failed to finish match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScores(ctx context.Context, exec SQLExecutor, id string, scoreA, scoreB int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET score_a = $1, score_b = $2 WHERE id = $3`

	result, err := executor.ExecContext(ctx, query, scoreA, scoreB, id)
	if err != nil {
		return fmt.Errorf("failed to update scores of match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// ListFinishedByPlayerName собирает все завершённые матчи, где игрок с
// данным именем входил в одну из команд, — по всем турнирам сразу.
// Счёт возвращается уже со стороны игрока.
func (r *postgresMatchRepository) ListFinishedByPlayerName(ctx context.Context, exec SQLExecutor, playerName string) ([]models.PlayerMatchSide, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT m.id, m.score_a, m.score_b,
		       (ta.player1_name = $1 OR ta.player2_name = $1) AS on_side_a
		FROM matches m
		JOIN teams ta ON m.team_a_id = ta.id
		JOIN teams tb ON m.team_b_id = tb.id
		WHERE m.is_finished
		  AND (ta.player1_name = $1 OR ta.player2_name = $1
		       OR tb.player1_name = $1 OR tb.player2_name = $1)`

	rows, err := executor.QueryContext(ctx, query, playerName)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished matches for player %q: %w", playerName, err)
	}
	defer rows.Close()

	sides := make([]models.PlayerMatchSide, 0)
	for rows.Next() {
		var (
			side    models.PlayerMatchSide
			scoreA  int
			scoreB  int
			onSideA bool
		)
		if scanErr := rows.Scan(&side.MatchID, &scoreA, &scoreB, &onSideA); scanErr != nil {
			return nil, scanErr
		}
		if onSideA {
			side.ScoreFor, side.ScoreAgainst = scoreA, scoreB
		} else {
			side.ScoreFor, side.ScoreAgainst = scoreB, scoreA
		}
		sides = append(sides, side)
	}
	return sides, rows.Err()
}

func (r *postgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountFinished(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE is_finished`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count finished matches: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23503":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
