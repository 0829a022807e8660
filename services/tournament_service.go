package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Dosada05/belote-club/brackets"
	"github.com/Dosada05/belote-club/models"
	"github.com/Dosada05/belote-club/repositories"
	"github.com/google/uuid"
)

// ShuffleFunc перемешивает имена игроков перед разбиением на пары.
// Вынесена в зависимость, чтобы тесты могли подставить детерминированный
// источник; боевой вариант — равномерный rand.Shuffle без сида.
type ShuffleFunc func(names []string)

func defaultShuffle(names []string) {
	rand.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
}

type CreateTournamentInput struct {
	Name      string                  `json:"name"`
	Format    models.TournamentFormat `json:"format"`
	PlayerIDs []string                `json:"player_ids"`
}

// TournamentView — турнир со всем, что нужно странице: составы, матчи,
// таблица (для round_robin) и чемпион (для доигранного дерева). Чемпион
// нигде не хранится — он каждый раз выводится из единственного матча
// последней стадии.
type TournamentView struct {
	Tournament *models.Tournament     `json:"tournament"`
	Teams      []*models.Team         `json:"teams"`
	Matches    []*models.Match        `json:"matches"`
	Standings  []*models.TeamStanding `json:"standings,omitempty"`
	Champion   *models.Team           `json:"champion,omitempty"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*TournamentView, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)
	DeleteTournament(ctx context.Context, id string) error
}

type tournamentService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	statsService   StatsService
	shuffle        ShuffleFunc
	tiePolicy      brackets.TiePolicy
}

func NewTournamentService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	statsService StatsService,
	shuffle ShuffleFunc,
) TournamentService {
	if shuffle == nil {
		shuffle = defaultShuffle
	}
	return &tournamentService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		statsService:   statsService,
		shuffle:        shuffle,
		tiePolicy:      brackets.TieAdvanceTeamA,
	}
}

// CreateTournament компонует турнир: проверяет состав, режет
// перемешанный список игроков на пары-команды и создаёт стартовые матчи
// выбранного формата. Вся композиция — одна транзакция: либо турнир со
// всеми командами и матчами, либо ничего.
func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if !input.Format.Valid() {
		return nil, ErrInvalidFormat
	}
	if len(input.PlayerIDs) < 4 {
		return nil, ErrNotEnoughPlayers
	}
	if len(input.PlayerIDs)%2 != 0 {
		return nil, ErrOddPlayerCount
	}

	name := input.Name
	if name == "" {
		name = fmt.Sprintf("Tournoi du %s", time.Now().Format("02/01/2006"))
	}

	tournament := &models.Tournament{
		ID:        uuid.NewString(),
		Name:      name,
		Format:    input.Format,
		Status:    models.StatusCreated,
		CreatedAt: time.Now(),
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		players, err := s.playerRepo.ListByIDs(ctx, exec, input.PlayerIDs)
		if err != nil {
			return fmt.Errorf("failed to resolve roster: %w", err)
		}
		if len(players) != len(input.PlayerIDs) {
			return ErrPlayerUnresolved
		}

		names := make([]string, len(players))
		for i, p := range players {
			names[i] = p.Name
		}
		s.shuffle(names)

		if err := s.tournamentRepo.Create(ctx, exec, tournament); err != nil {
			return fmt.Errorf("failed to create tournament: %w", err)
		}

		teamIDs := make([]string, 0, len(names)/2)
		for i := 0; i+1 < len(names); i += 2 {
			team := &models.Team{
				ID:           uuid.NewString(),
				TournamentID: tournament.ID,
				Player1Name:  names[i],
				Player2Name:  names[i+1],
			}
			if err := s.teamRepo.Create(ctx, exec, team); err != nil {
				return fmt.Errorf("failed to create team: %w", err)
			}
			teamIDs = append(teamIDs, team.ID)
		}

		planner := brackets.PlannerForFormat(tournament.Format)
		for _, pairing := range planner.PlanInitialRound(teamIDs) {
			match := &models.Match{
				ID:           uuid.NewString(),
				TournamentID: tournament.ID,
				RoundNumber:  pairing.RoundNumber,
				TeamAID:      pairing.TeamAID,
				TeamBID:      pairing.TeamBID,
			}
			if err := s.matchRepo.Create(ctx, exec, match); err != nil {
				return fmt.Errorf("failed to create match: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id string) (*TournamentView, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of tournament %s: %w", id, err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %s: %w", id, err)
	}

	view := &TournamentView{
		Tournament: tournament,
		Teams:      teams,
		Matches:    matches,
	}

	switch tournament.Format {
	case models.FormatRoundRobin:
		view.Standings = brackets.ComputeStandings(teams, matches)
	case models.FormatElimination:
		view.Champion = s.inferChampion(teams, matches)
	}

	return view, nil
}

// inferChampion находит команду-победителя доигранного дерева: если
// последняя стадия состоит из единственного завершённого матча, его
// победитель — чемпион. Во всех остальных случаях чемпиона ещё нет.
func (s *tournamentService) inferChampion(teams []*models.Team, matches []*models.Match) *models.Team {
	if len(matches) == 0 {
		return nil
	}

	lastRound := 0
	for _, m := range matches {
		if m.RoundNumber > lastRound {
			lastRound = m.RoundNumber
		}
	}

	var final *models.Match
	for _, m := range matches {
		if m.RoundNumber != lastRound {
			continue
		}
		if final != nil {
			return nil // стадия ещё не сведена к одному матчу
		}
		final = m
	}
	if final == nil || !final.IsFinished {
		return nil
	}

	winnerID := brackets.WinnerTeamID(final, s.tiePolicy)
	for _, t := range teams {
		if t.ID == winnerID {
			return t
		}
	}
	return nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx)
}

// DeleteTournament удаляет турнир (команды, матчи и раздачи уходят
// каскадом) и в той же транзакции пересчитывает кэш статистики всех
// игроков: после каскада затронутых уже не вычислить по-дешёвому.
func (s *tournamentService) DeleteTournament(ctx context.Context, id string) error {
	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.tournamentRepo.Delete(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		return s.statsService.RecalculateAllWithin(ctx, exec)
	})
}
