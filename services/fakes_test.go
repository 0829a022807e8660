package services

import (
	"context"
	"sort"

	"github.com/Dosada05/belote-club/models"
	"github.com/Dosada05/belote-club/repositories"
)

// memStore — общее состояние фейковых репозиториев. Слайсы хранят
// значения в порядке вставки, что воспроизводит seq-порядок матчей.
type memStore struct {
	tournaments []models.Tournament
	players     []models.Player
	teams       []models.Team
	matches     []models.Match
	rounds      []models.Round
	nextSeq     int64
}

func (s *memStore) snapshot() memStore {
	cp := memStore{nextSeq: s.nextSeq}
	cp.tournaments = append([]models.Tournament(nil), s.tournaments...)
	cp.players = append([]models.Player(nil), s.players...)
	cp.teams = append([]models.Team(nil), s.teams...)
	cp.matches = append([]models.Match(nil), s.matches...)
	cp.rounds = append([]models.Round(nil), s.rounds...)
	return cp
}

func (s *memStore) restore(snap memStore) {
	*s = snap
}

func (s *memStore) teamByID(id string) *models.Team {
	for i := range s.teams {
		if s.teams[i].ID == id {
			t := s.teams[i]
			return &t
		}
	}
	return nil
}

func (s *memStore) addPlayer(id, name string) {
	s.players = append(s.players, models.Player{ID: id, Name: name})
}

// fakeTransactor имитирует atomicity настоящей транзакции: при ошибке
// из блока состояние хранилища откатывается к снимку.
type fakeTransactor struct {
	store *memStore
}

func (t *fakeTransactor) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type fakeTournamentRepo struct {
	store *memStore
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, tournament *models.Tournament) error {
	r.store.tournaments = append(r.store.tournaments, *tournament)
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Tournament, error) {
	for i := range r.store.tournaments {
		if r.store.tournaments[i].ID == id {
			t := r.store.tournaments[i]
			return &t, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) List(_ context.Context) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(r.store.tournaments))
	for i := len(r.store.tournaments) - 1; i >= 0; i-- {
		t := r.store.tournaments[i]
		out = append(out, &t)
	}
	return out, nil
}

// Delete повторяет каскад схемы: команды, матчи и раздачи уходят вместе
// с турниром.
func (r *fakeTournamentRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id string) error {
	found := false
	kept := r.store.tournaments[:0]
	for _, t := range r.store.tournaments {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	r.store.tournaments = kept
	if !found {
		return repositories.ErrTournamentNotFound
	}

	keptTeams := r.store.teams[:0]
	for _, team := range r.store.teams {
		if team.TournamentID != id {
			keptTeams = append(keptTeams, team)
		}
	}
	r.store.teams = keptTeams

	deadMatches := make(map[string]bool)
	keptMatches := r.store.matches[:0]
	for _, m := range r.store.matches {
		if m.TournamentID == id {
			deadMatches[m.ID] = true
			continue
		}
		keptMatches = append(keptMatches, m)
	}
	r.store.matches = keptMatches

	keptRounds := r.store.rounds[:0]
	for _, rd := range r.store.rounds {
		if !deadMatches[rd.MatchID] {
			keptRounds = append(keptRounds, rd)
		}
	}
	r.store.rounds = keptRounds
	return nil
}

func (r *fakeTournamentRepo) Count(_ context.Context) (int, error) {
	return len(r.store.tournaments), nil
}

type fakePlayerRepo struct {
	store *memStore
}

func (r *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	for i := range r.store.players {
		if r.store.players[i].Name == player.Name {
			return repositories.ErrPlayerNameConflict
		}
	}
	r.store.players = append(r.store.players, *player)
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id string) (*models.Player, error) {
	for i := range r.store.players {
		if r.store.players[i].ID == id {
			p := r.store.players[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) List(_ context.Context) ([]*models.Player, error) {
	out := make([]*models.Player, 0, len(r.store.players))
	for i := range r.store.players {
		p := r.store.players[i]
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListByIDs повторяет семантику настоящего репозитория: повторы входа
// схлопываются до одной строки.
func (r *fakePlayerRepo) ListByIDs(_ context.Context, _ repositories.SQLExecutor, ids []string) ([]*models.Player, error) {
	out := make([]*models.Player, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		for i := range r.store.players {
			if r.store.players[i].ID == id {
				p := r.store.players[i]
				out = append(out, &p)
				seen[id] = true
				break
			}
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) ListNames(_ context.Context, _ repositories.SQLExecutor) ([]string, error) {
	names := make([]string, 0, len(r.store.players))
	for i := range r.store.players {
		names = append(names, r.store.players[i].Name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *fakePlayerRepo) UpdateStats(_ context.Context, _ repositories.SQLExecutor, name string, stats models.PlayerStats) error {
	for i := range r.store.players {
		if r.store.players[i].Name == name {
			r.store.players[i].MatchesPlayed = stats.MatchesPlayed
			r.store.players[i].MatchesWon = stats.MatchesWon
			r.store.players[i].TotalPoints = stats.TotalPoints
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) UpdateAvatarKey(_ context.Context, playerID string, avatarKey *string) error {
	for i := range r.store.players {
		if r.store.players[i].ID == playerID {
			r.store.players[i].AvatarKey = avatarKey
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) Delete(_ context.Context, id string) error {
	for i := range r.store.players {
		if r.store.players[i].ID == id {
			r.store.players = append(r.store.players[:i], r.store.players[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) Count(_ context.Context) (int, error) {
	return len(r.store.players), nil
}

func (r *fakePlayerRepo) ListTop(ctx context.Context, limit int) ([]*models.Player, error) {
	out, _ := r.List(ctx)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchesWon != out[j].MatchesWon {
			return out[i].MatchesWon > out[j].MatchesWon
		}
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeTeamRepo struct {
	store *memStore
}

func (r *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	r.store.teams = append(r.store.teams, *team)
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Team, error) {
	if t := r.store.teamByID(id); t != nil {
		return t, nil
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID string) ([]*models.Team, error) {
	out := make([]*models.Team, 0)
	for i := range r.store.teams {
		if r.store.teams[i].TournamentID == tournamentID {
			t := r.store.teams[i]
			out = append(out, &t)
		}
	}
	return out, nil
}

type fakeMatchRepo struct {
	store *memStore
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.store.nextSeq++
	match.Seq = r.store.nextSeq
	r.store.matches = append(r.store.matches, *match)
	return nil
}

// GetByID, как и SQL-версия, подтягивает составы обеих команд.
func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.Match, error) {
	for i := range r.store.matches {
		if r.store.matches[i].ID == id {
			m := r.store.matches[i]
			m.TeamA = r.store.teamByID(m.TeamAID)
			m.TeamB = r.store.teamByID(m.TeamBID)
			return &m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID string) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for i := range r.store.matches {
		if r.store.matches[i].TournamentID == tournamentID {
			m := r.store.matches[i]
			m.TeamA = r.store.teamByID(m.TeamAID)
			m.TeamB = r.store.teamByID(m.TeamBID)
			out = append(out, &m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (r *fakeMatchRepo) ListByRound(_ context.Context, _ repositories.SQLExecutor, tournamentID string, roundNumber int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for i := range r.store.matches {
		m := r.store.matches[i]
		if m.TournamentID == tournamentID && m.RoundNumber == roundNumber {
			out = append(out, &m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeMatchRepo) Finish(_ context.Context, _ repositories.SQLExecutor, id string, scoreA, scoreB int) error {
	for i := range r.store.matches {
		if r.store.matches[i].ID == id {
			r.store.matches[i].ScoreA = scoreA
			r.store.matches[i].ScoreB = scoreB
			r.store.matches[i].IsFinished = true
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) UpdateScores(_ context.Context, _ repositories.SQLExecutor, id string, scoreA, scoreB int) error {
	for i := range r.store.matches {
		if r.store.matches[i].ID == id {
			r.store.matches[i].ScoreA = scoreA
			r.store.matches[i].ScoreB = scoreB
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListFinishedByPlayerName(_ context.Context, _ repositories.SQLExecutor, playerName string) ([]models.PlayerMatchSide, error) {
	var sides []models.PlayerMatchSide
	for i := range r.store.matches {
		m := r.store.matches[i]
		if !m.IsFinished {
			continue
		}
		teamA := r.store.teamByID(m.TeamAID)
		teamB := r.store.teamByID(m.TeamBID)
		switch {
		case teamA != nil && (teamA.Player1Name == playerName || teamA.Player2Name == playerName):
			sides = append(sides, models.PlayerMatchSide{MatchID: m.ID, ScoreFor: m.ScoreA, ScoreAgainst: m.ScoreB})
		case teamB != nil && (teamB.Player1Name == playerName || teamB.Player2Name == playerName):
			sides = append(sides, models.PlayerMatchSide{MatchID: m.ID, ScoreFor: m.ScoreB, ScoreAgainst: m.ScoreA})
		}
	}
	return sides, nil
}

func (r *fakeMatchRepo) Count(_ context.Context) (int, error) {
	return len(r.store.matches), nil
}

func (r *fakeMatchRepo) CountFinished(_ context.Context) (int, error) {
	n := 0
	for i := range r.store.matches {
		if r.store.matches[i].IsFinished {
			n++
		}
	}
	return n, nil
}

type fakeRoundRepo struct {
	store *memStore
}

func (r *fakeRoundRepo) Create(_ context.Context, _ repositories.SQLExecutor, round *models.Round) error {
	for i := range r.store.rounds {
		if r.store.rounds[i].MatchID == round.MatchID && r.store.rounds[i].RoundIndex == round.RoundIndex {
			return repositories.ErrRoundIndexTaken
		}
	}
	r.store.rounds = append(r.store.rounds, *round)
	return nil
}

func (r *fakeRoundRepo) Update(_ context.Context, _ repositories.SQLExecutor, round *models.Round) error {
	for i := range r.store.rounds {
		if r.store.rounds[i].ID == round.ID {
			r.store.rounds[i] = *round
			return nil
		}
	}
	return repositories.ErrRoundNotFound
}

func (r *fakeRoundRepo) GetByMatchAndIndex(_ context.Context, _ repositories.SQLExecutor, matchID string, roundIndex int) (*models.Round, error) {
	for i := range r.store.rounds {
		if r.store.rounds[i].MatchID == matchID && r.store.rounds[i].RoundIndex == roundIndex {
			rd := r.store.rounds[i]
			return &rd, nil
		}
	}
	return nil, repositories.ErrRoundNotFound
}

func (r *fakeRoundRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID string) ([]*models.Round, error) {
	out := make([]*models.Round, 0)
	for i := range r.store.rounds {
		if r.store.rounds[i].MatchID == matchID {
			rd := r.store.rounds[i]
			out = append(out, &rd)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RoundIndex < out[j].RoundIndex })
	return out, nil
}

func (r *fakeRoundRepo) SumByMatch(_ context.Context, _ repositories.SQLExecutor, matchID string) (int, int, error) {
	totalA, totalB := 0, 0
	for i := range r.store.rounds {
		if r.store.rounds[i].MatchID == matchID {
			totalA += r.store.rounds[i].ScoreA
			totalB += r.store.rounds[i].ScoreB
		}
	}
	return totalA, totalB, nil
}

func (r *fakeRoundRepo) AddBeloteBonus(_ context.Context, _ repositories.SQLExecutor, matchID string, bonus int) (int64, int64, error) {
	var updatedA, updatedB int64
	for i := range r.store.rounds {
		if r.store.rounds[i].MatchID != matchID {
			continue
		}
		if r.store.rounds[i].BeloteA {
			r.store.rounds[i].ScoreA += bonus
			updatedA++
		}
		if r.store.rounds[i].BeloteB {
			r.store.rounds[i].ScoreB += bonus
			updatedB++
		}
	}
	return updatedA, updatedB, nil
}

// testEnv связывает фейки с настоящими сервисами ровно так, как это
// делает main.
type testEnv struct {
	store          *memStore
	tx             *fakeTransactor
	tournamentRepo *fakeTournamentRepo
	playerRepo     *fakePlayerRepo
	teamRepo       *fakeTeamRepo
	matchRepo      *fakeMatchRepo
	roundRepo      *fakeRoundRepo
	stats          StatsService
}

func newTestEnv() *testEnv {
	store := &memStore{}
	env := &testEnv{
		store:          store,
		tx:             &fakeTransactor{store: store},
		tournamentRepo: &fakeTournamentRepo{store: store},
		playerRepo:     &fakePlayerRepo{store: store},
		teamRepo:       &fakeTeamRepo{store: store},
		matchRepo:      &fakeMatchRepo{store: store},
		roundRepo:      &fakeRoundRepo{store: store},
	}
	env.stats = NewStatsService(env.tx, env.playerRepo, env.matchRepo)
	return env
}

func (e *testEnv) playerByName(name string) *models.Player {
	for i := range e.store.players {
		if e.store.players[i].Name == name {
			p := e.store.players[i]
			return &p
		}
	}
	return nil
}
