package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/belote-club/models"
	"github.com/Dosada05/belote-club/repositories"
)

// StatsService пересобирает производный кэш игрока (matches_played,
// matches_won, total_points) по всей истории завершённых матчей.
// Всегда полный пересчёт, никогда инкремент: после удалений и починок
// счёта инкрементные счётчики расползаются, пересчёт — нет. Операция
// идемпотентна и не зависит от порядка вызовов.
type StatsService interface {
	RecalculatePlayer(ctx context.Context, playerName string) error
	RecalculatePlayerWithin(ctx context.Context, exec repositories.SQLExecutor, playerName string) error
	RecalculateAllWithin(ctx context.Context, exec repositories.SQLExecutor) error
}

type statsService struct {
	tx         repositories.Transactor
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
}

func NewStatsService(
	tx repositories.Transactor,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
) StatsService {
	return &statsService{
		tx:         tx,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
	}
}

func (s *statsService) RecalculatePlayer(ctx context.Context, playerName string) error {
	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.RecalculatePlayerWithin(ctx, exec, playerName)
	})
}

// RecalculatePlayerWithin выполняет пересчёт внутри транзакции вызывающей
// стороны: при её откате прежний кэш остаётся нетронутым, частичное
// обновление наблюдать невозможно.
func (s *statsService) RecalculatePlayerWithin(ctx context.Context, exec repositories.SQLExecutor, playerName string) error {
	sides, err := s.matchRepo.ListFinishedByPlayerName(ctx, exec, playerName)
	if err != nil {
		return fmt.Errorf("failed to load finished matches for %q: %w", playerName, err)
	}

	var stats models.PlayerStats
	for _, side := range sides {
		stats.MatchesPlayed++
		stats.TotalPoints += side.ScoreFor
		if side.Won() {
			stats.MatchesWon++
		}
	}

	err = s.playerRepo.UpdateStats(ctx, exec, playerName, stats)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		// Имя из снимка команды может принадлежать уже удалённому игроку:
		// кэша больше нет, пересчитывать нечего.
		return nil
	}
	return err
}

// RecalculateAllWithin пересчитывает кэш каждого игрока клуба. Вызывается
// после удаления турнира: команды и матчи уже ушли каскадом, и затронутое
// подмножество игроков дёшево не восстановить.
func (s *statsService) RecalculateAllWithin(ctx context.Context, exec repositories.SQLExecutor) error {
	names, err := s.playerRepo.ListNames(ctx, exec)
	if err != nil {
		return fmt.Errorf("failed to list player names: %w", err)
	}
	for _, name := range names {
		if err := s.RecalculatePlayerWithin(ctx, exec, name); err != nil {
			return err
		}
	}
	return nil
}
