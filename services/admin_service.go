package services

import (
	"context"
	"errors"

	"github.com/Dosada05/belote-club/models"
	"github.com/Dosada05/belote-club/repositories"
)

type BeloteRepairResult struct {
	MatchID        string `json:"match_id"`
	UpdatedRoundsA int64  `json:"updated_rounds_a"`
	UpdatedRoundsB int64  `json:"updated_rounds_b"`
	NewTotalA      int    `json:"new_total_a"`
	NewTotalB      int    `json:"new_total_b"`
}

// AdminService — административные починки данных, которые нельзя
// выполнять в обычном потоке.
type AdminService interface {
	RepairBeloteScores(ctx context.Context, matchID string) (*BeloteRepairResult, error)
}

type adminService struct {
	tx           repositories.Transactor
	matchRepo    repositories.MatchRepository
	roundRepo    repositories.RoundRepository
	statsService StatsService
}

func NewAdminService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	roundRepo repositories.RoundRepository,
	statsService StatsService,
) AdminService {
	return &adminService{
		tx:           tx,
		matchRepo:    matchRepo,
		roundRepo:    roundRepo,
		statsService: statsService,
	}
}

// RepairBeloteScores чинит матчи, сохранённые до исправления подсчёта
// белота: тогда премия не попадала в счёт раздачи. К каждой помеченной
// раздаче добавляется 20 очков, итог матча пересуммируется, статистика
// всех четырёх участников пересчитывается. Операция разовая: повторный
// запуск добавит премию ещё раз, поэтому она доступна только как
// отдельный административный вызов.
func (s *adminService) RepairBeloteScores(ctx context.Context, matchID string) (*BeloteRepairResult, error) {
	result := &BeloteRepairResult{MatchID: matchID}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		result.UpdatedRoundsA, result.UpdatedRoundsB, err = s.roundRepo.AddBeloteBonus(ctx, exec, matchID, models.BeloteBonus)
		if err != nil {
			return err
		}

		totalA, totalB, err := s.roundRepo.SumByMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if err := s.matchRepo.UpdateScores(ctx, exec, matchID, totalA, totalB); err != nil {
			return err
		}
		result.NewTotalA, result.NewTotalB = totalA, totalB

		for _, name := range participantNames(match) {
			if err := s.statsService.RecalculatePlayerWithin(ctx, exec, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
