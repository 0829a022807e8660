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
	ErrRoundNotFound     = errors.New("round not found")
	ErrRoundMatchInvalid = errors.New("round references an invalid match")
	ErrRoundIndexTaken   = errors.New("round index already exists for this match")
)

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	Update(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByMatchAndIndex(ctx context.Context, exec SQLExecutor, matchID string, roundIndex int) (*models.Round, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID string) ([]*models.Round, error)
	SumByMatch(ctx context.Context, exec SQLExecutor, matchID string) (totalA int, totalB int, err error)
	AddBeloteBonus(ctx context.Context, exec SQLExecutor, matchID string, bonus int) (updatedA int64, updatedB int64, err error)
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO rounds (id, match_id, round_index, score_a, score_b, belote_a, belote_b, capot_a, capot_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := executor.ExecContext(ctx, query,
		round.ID, round.MatchID, round.RoundIndex,
		round.ScoreA, round.ScoreB,
		round.BeloteA, round.BeloteB, round.CapotA, round.CapotB,
	)
	return r.handleRoundError(err)
}

func (r *postgresRoundRepository) Update(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE rounds
		SET score_a = $1, score_b = $2, capot_a = $3, capot_b = $4, belote_a = $5, belote_b = $6
		WHERE id = $7`

	result, err := executor.ExecContext(ctx, query,
		round.ScoreA, round.ScoreB, round.CapotA, round.CapotB, round.BeloteA, round.BeloteB, round.ID,
	)
	if err != nil {
		return r.handleRoundError(err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) GetByMatchAndIndex(ctx context.Context, exec SQLExecutor, matchID string, roundIndex int) (*models.Round, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, round_index, score_a, score_b, belote_a, belote_b, capot_a, capot_b
		FROM rounds
		WHERE match_id = $1 AND round_index = $2`

	round := &models.Round{}
	err := executor.QueryRowContext(ctx, query, matchID, roundIndex).Scan(
		&round.ID, &round.MatchID, &round.RoundIndex,
		&round.ScoreA, &round.ScoreB,
		&round.BeloteA, &round.BeloteB, &round.CapotA, &round.CapotB,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round %d of match %s: %w", roundIndex, matchID, err)
	}
	return round, nil
}

func (r *postgresRoundRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID string) ([]*models.Round, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, round_index, score_a, score_b, belote_a, belote_b, capot_a, capot_b
		FROM rounds
		WHERE match_id = $1
		ORDER BY round_index ASC`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(
			&round.ID, &round.MatchID, &round.RoundIndex,
			&round.ScoreA, &round.ScoreB,
			&round.BeloteA, &round.BeloteB, &round.CapotA, &round.CapotB,
		); scanErr != nil {
			return nil, scanErr
		}
		rounds = append(rounds, &round)
	}
	return rounds, rows.Err()
}

func (r *postgresRoundRepository) SumByMatch(ctx context.Context, exec SQLExecutor, matchID string) (int, int, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT COALESCE(SUM(score_a), 0), COALESCE(SUM(score_b), 0)
		FROM rounds
		WHERE match_id = $1`

	var totalA, totalB int
	if err := executor.QueryRowContext(ctx, query, matchID).Scan(&totalA, &totalB); err != nil {
		return 0, 0, fmt.Errorf("failed to sum rounds of match %s: %w", matchID, err)
	}
	return totalA, totalB, nil
}

// AddBeloteBonus дописывает бонус к каждой раздаче с выставленным флагом
// белота. Операция НЕ идемпотентна: повторный вызов добавит бонус ещё раз,
// поэтому она доступна только через административную починку.
func (r *postgresRoundRepository) AddBeloteBonus(ctx context.Context, exec SQLExecutor, matchID string, bonus int) (int64, int64, error) {
	executor := r.getExecutor(exec)

	resultA, err := executor.ExecContext(ctx,
		`UPDATE rounds SET score_a = score_a + $1 WHERE match_id = $2 AND belote_a`, bonus, matchID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to apply belote bonus to side A of match %s: %w", matchID, err)
	}
	updatedA, err := resultA.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	resultB, err := executor.ExecContext(ctx,
		`UPDATE rounds SET score_b = score_b + $1 WHERE match_id = $2 AND belote_b`, bonus, matchID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to apply belote bonus to side B of match %s: %w", matchID, err)
	}
	updatedB, err := resultB.RowsAffected()
	if err != nil {
		return 0, 0, err
	}

	return updatedA, updatedB, nil
}

func (r *postgresRoundRepository) handleRoundError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrRoundIndexTaken
		case "23503":
			return ErrRoundMatchInvalid
		}
	}
	return err
}
