package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/belote-club/brackets"
	"github.com/Dosada05/belote-club/models"
	"github.com/Dosada05/belote-club/repositories"
	"github.com/google/uuid"
)

type SaveRoundInput struct {
	RoundIndex int  `json:"round_index"`
	ScoreA     int  `json:"score_a"`
	ScoreB     int  `json:"score_b"`
	CapotA     bool `json:"capot_a"`
	CapotB     bool `json:"capot_b"`
	BeloteA    bool `json:"belote_a"`
	BeloteB    bool `json:"belote_b"`
}

type MatchView struct {
	Match  *models.Match   `json:"match"`
	Rounds []*models.Round `json:"rounds"`
}

type MatchService interface {
	GetMatch(ctx context.Context, matchID string) (*MatchView, error)
	SaveRound(ctx context.Context, matchID string, input SaveRoundInput) (*models.Round, error)
	FinishMatch(ctx context.Context, matchID string) (*models.Match, error)
}

type matchService struct {
	tx             repositories.Transactor
	matchRepo      repositories.MatchRepository
	roundRepo      repositories.RoundRepository
	tournamentRepo repositories.TournamentRepository
	statsService   StatsService
	hub            *brackets.Hub
	tiePolicy      brackets.TiePolicy
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	roundRepo repositories.RoundRepository,
	tournamentRepo repositories.TournamentRepository,
	statsService StatsService,
	hub *brackets.Hub,
	tiePolicy brackets.TiePolicy,
) MatchService {
	return &matchService{
		tx:             tx,
		matchRepo:      matchRepo,
		roundRepo:      roundRepo,
		tournamentRepo: tournamentRepo,
		statsService:   statsService,
		hub:            hub,
		tiePolicy:      tiePolicy,
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID string) (*MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	rounds, err := s.roundRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds of match %s: %w", matchID, err)
	}

	return &MatchView{Match: match, Rounds: rounds}, nil
}

// SaveRound записывает одну раздачу. Капот перекрывает любой введённый
// счёт фиксированными 252:0; сторона A проверяется первой. Флаги белота
// сохраняются как факт и на счёт не влияют — бонус уже включён в ввод.
// Upsert по (match_id, round_index): существующая строка обновляется на
// месте, второй строки с тем же индексом не появляется. Итоги матча
// здесь не трогаются.
func (s *matchService) SaveRound(ctx context.Context, matchID string, input SaveRoundInput) (*models.Round, error) {
	if input.RoundIndex < 1 {
		return nil, ErrRoundIndexInvalid
	}

	scoreA, scoreB := input.ScoreA, input.ScoreB
	if input.CapotA {
		scoreA, scoreB = models.CapotScore, 0
	} else if input.CapotB {
		scoreB, scoreA = models.CapotScore, 0
	}

	var saved *models.Round
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.matchRepo.GetByID(ctx, exec, matchID); err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		existing, err := s.roundRepo.GetByMatchAndIndex(ctx, exec, matchID, input.RoundIndex)
		switch {
		case err == nil:
			existing.ScoreA, existing.ScoreB = scoreA, scoreB
			existing.CapotA, existing.CapotB = input.CapotA, input.CapotB
			existing.BeloteA, existing.BeloteB = input.BeloteA, input.BeloteB
			saved = existing
			return s.roundRepo.Update(ctx, exec, existing)
		case errors.Is(err, repositories.ErrRoundNotFound):
			saved = &models.Round{
				ID:         uuid.NewString(),
				MatchID:    matchID,
				RoundIndex: input.RoundIndex,
				ScoreA:     scoreA,
				ScoreB:     scoreB,
				BeloteA:    input.BeloteA,
				BeloteB:    input.BeloteB,
				CapotA:     input.CapotA,
				CapotB:     input.CapotB,
			}
			return s.roundRepo.Create(ctx, exec, saved)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// FinishMatch — единственная точка, где итог матча становится производным
// от его раздач: суммы по раздачам перезаписывают score_a/score_b вместе
// с is_finished. Повторный вызов по неизменённым раздачам даёт те же
// суммы. Для турниров на выбывание здесь же, в той же транзакции,
// проверяется завершённость стадии и создаются матчи следующей; затем
// пересчитывается статистика всех четырёх участников. Снаружи транзакции
// не видно ни одного промежуточного состояния.
func (s *matchService) FinishMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var (
		finished *models.Match
		advanced []brackets.Pairing
	)

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return err
		}

		totalA, totalB, err := s.roundRepo.SumByMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if err := s.matchRepo.Finish(ctx, exec, matchID, totalA, totalB); err != nil {
			return err
		}
		match.ScoreA, match.ScoreB, match.IsFinished = totalA, totalB, true

		tournament, err := s.tournamentRepo.GetByID(ctx, exec, match.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}

		if tournament.Format == models.FormatElimination {
			advanced, err = s.advanceBracket(ctx, exec, match)
			if err != nil {
				return err
			}
		}

		for _, name := range participantNames(match) {
			if err := s.statsService.RecalculatePlayerWithin(ctx, exec, name); err != nil {
				return fmt.Errorf("failed to recalculate stats for %q: %w", name, err)
			}
		}

		finished = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyFinished(finished, advanced)
	return finished, nil
}

// advanceBracket продвигает сетку после завершения матча: если все матчи
// текущей стадии доиграны и стадия не финальная, из победителей
// создаются матчи стадии round_number+1. Пары собираются по порядку
// вставки; ничья разрешается настроенной политикой.
func (s *matchService) advanceBracket(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) ([]brackets.Pairing, error) {
	// Повторное завершение уже продвинутой стадии не должно плодить
	// вторую копию следующей.
	nextMatches, err := s.matchRepo.ListByRound(ctx, exec, match.TournamentID, match.RoundNumber+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of round %d: %w", match.RoundNumber+1, err)
	}
	if len(nextMatches) > 0 {
		return nil, nil
	}

	roundMatches, err := s.matchRepo.ListByRound(ctx, exec, match.TournamentID, match.RoundNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of round %d: %w", match.RoundNumber, err)
	}

	pairings := brackets.AdvanceRound(roundMatches, s.tiePolicy)
	for _, pairing := range pairings {
		next := &models.Match{
			ID:           uuid.NewString(),
			TournamentID: match.TournamentID,
			RoundNumber:  pairing.RoundNumber,
			TeamAID:      pairing.TeamAID,
			TeamBID:      pairing.TeamBID,
		}
		if err := s.matchRepo.Create(ctx, exec, next); err != nil {
			return nil, fmt.Errorf("failed to create next-round match: %w", err)
		}
	}
	return pairings, nil
}

func (s *matchService) notifyFinished(match *models.Match, advanced []brackets.Pairing) {
	if s.hub == nil || match == nil {
		return
	}
	roomID := "tournament_" + match.TournamentID
	s.hub.BroadcastToRoom(roomID, brackets.WebSocketMessage{
		Type:    brackets.EventMatchFinished,
		Payload: match,
		RoomID:  roomID,
	})
	if len(advanced) > 0 {
		s.hub.BroadcastToRoom(roomID, brackets.WebSocketMessage{
			Type:    brackets.EventRoundAdvanced,
			Payload: advanced,
			RoomID:  roomID,
		})
	}
}

func participantNames(match *models.Match) []string {
	names := make([]string, 0, 4)
	if match.TeamA != nil {
		names = append(names, match.TeamA.Player1Name, match.TeamA.Player2Name)
	}
	if match.TeamB != nil {
		names = append(names, match.TeamB.Player1Name, match.TeamB.Player2Name)
	}
	return names
}
