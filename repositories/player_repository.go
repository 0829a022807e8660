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
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerNameConflict = errors.New("player name is already in use")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id string) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []string) ([]*models.Player, error)
	ListNames(ctx context.Context, exec SQLExecutor) ([]string, error)
	UpdateStats(ctx context.Context, exec SQLExecutor, name string, stats models.PlayerStats) error
	UpdateAvatarKey(ctx context.Context, playerID string, avatarKey *string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	ListTop(ctx context.Context, limit int) ([]*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (id, name, matches_played, matches_won, total_points)
		VALUES ($1, $2, 0, 0, 0)`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name)
	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id string) (*models.Player, error) {
	query := `
		SELECT id, name, matches_played, matches_won, total_points, avatar_key
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.MatchesPlayed, &p.MatchesWon, &p.TotalPoints, &p.AvatarKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `
		SELECT id, name, matches_played, matches_won, total_points, avatar_key
		FROM players
		ORDER BY name ASC`

	return r.queryPlayers(ctx, r.db, query)
}

// ListByIDs возвращает игроков в порядке их следования во входном срезе.
// Нерезолвящиеся идентификаторы просто отсутствуют в результате, а
// повторы входа схлопываются до одной строки, как их отдаёт ANY($1) —
// сверку количества делает вызывающая сторона.
func (r *postgresPlayerRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []string) ([]*models.Player, error) {
	if len(ids) == 0 {
		return []*models.Player{}, nil
	}
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, matches_played, matches_won, total_points, avatar_key
		FROM players
		WHERE id = ANY($1)`

	players, err := r.queryPlayers(ctx, executor, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	ordered := make([]*models.Player, 0, len(players))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (r *postgresPlayerRepository) ListNames(ctx context.Context, exec SQLExecutor) ([]string, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT name FROM players ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if scanErr := rows.Scan(&name); scanErr != nil {
			return nil, scanErr
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpdateStats перезаписывает производный кэш игрока целиком.
func (r *postgresPlayerRepository) UpdateStats(ctx context.Context, exec SQLExecutor, name string, stats models.PlayerStats) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE players
		SET matches_played = $1, matches_won = $2, total_points = $3
		WHERE name = $4`

	result, err := executor.ExecContext(ctx, query, stats.MatchesPlayed, stats.MatchesWon, stats.TotalPoints, name)
	if err != nil {
		return fmt.Errorf("failed to update stats for player %q: %w", name, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateAvatarKey(ctx context.Context, playerID string, avatarKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET avatar_key = $1 WHERE id = $2`, avatarKey, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player avatar key: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) ListTop(ctx context.Context, limit int) ([]*models.Player, error) {
	query := `
		SELECT id, name, matches_played, matches_won, total_points, avatar_key
		FROM players
		ORDER BY matches_won DESC, total_points DESC, name ASC
		LIMIT $1`

	return r.queryPlayers(ctx, r.db, query, limit)
}

func (r *postgresPlayerRepository) queryPlayers(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Player, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.MatchesPlayed, &p.MatchesWon, &p.TotalPoints, &p.AvatarKey); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrPlayerNameConflict
		}
	}
	return err
}
