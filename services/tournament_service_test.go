package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Dosada05/belote-club/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityShuffle оставляет порядок имён как есть, чтобы составы команд
// были предсказуемы.
func identityShuffle(names []string) {}

func seedRoster(env *testEnv, n int) []string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("p%d", i+1)
		env.store.addPlayer(ids[i], fmt.Sprintf("Joueur %d", i+1))
	}
	return ids
}

func newTournamentService(env *testEnv) TournamentService {
	return NewTournamentService(
		env.tx,
		env.tournamentRepo,
		env.playerRepo,
		env.teamRepo,
		env.matchRepo,
		env.stats,
		identityShuffle,
	)
}

func TestCreateTournamentValidation(t *testing.T) {
	env := newTestEnv()
	ids := seedRoster(env, 6)
	svc := newTournamentService(env)
	ctx := context.Background()

	cases := []struct {
		name    string
		input   CreateTournamentInput
		wantErr error
	}{
		{
			name:    "unknown format",
			input:   CreateTournamentInput{Format: "swiss", PlayerIDs: ids[:4]},
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "fewer than four players",
			input:   CreateTournamentInput{Format: models.FormatRoundRobin, PlayerIDs: ids[:2]},
			wantErr: ErrNotEnoughPlayers,
		},
		{
			name:    "odd player count",
			input:   CreateTournamentInput{Format: models.FormatRoundRobin, PlayerIDs: ids[:5]},
			wantErr: ErrOddPlayerCount,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTournament(ctx, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Ни одна из отклонённых попыток не должна оставить следов.
	assert.Empty(t, env.store.tournaments)
	assert.Empty(t, env.store.teams)
	assert.Empty(t, env.store.matches)
}

func TestCreateTournamentUnresolvedPlayerRollsBack(t *testing.T) {
	env := newTestEnv()
	ids := seedRoster(env, 3)
	svc := newTournamentService(env)

	_, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		Name:      "Tournoi fantôme",
		Format:    models.FormatRoundRobin,
		PlayerIDs: append(append([]string{}, ids...), "missing"),
	})
	require.ErrorIs(t, err, ErrPlayerUnresolved)

	assert.Empty(t, env.store.tournaments)
	assert.Empty(t, env.store.teams)
	assert.Empty(t, env.store.matches)
}

func TestCreateTournamentDuplicatePlayerRollsBack(t *testing.T) {
	env := newTestEnv()
	ids := seedRoster(env, 3)
	svc := newTournamentService(env)

	// Один игрок указан дважды: резолв даёт три строки на четыре
	// идентификатора, состав отклоняется целиком.
	_, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		Name:      "Tournoi double",
		Format:    models.FormatRoundRobin,
		PlayerIDs: []string{ids[0], ids[0], ids[1], ids[2]},
	})
	require.ErrorIs(t, err, ErrPlayerUnresolved)

	assert.Empty(t, env.store.tournaments)
	assert.Empty(t, env.store.teams)
	assert.Empty(t, env.store.matches)
}

func TestCreateTournamentRoundRobin(t *testing.T) {
	env := newTestEnv()
	ids := seedRoster(env, 8)
	svc := newTournamentService(env)

	tournament, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		Name:      "Championnat du club",
		Format:    models.FormatRoundRobin,
		PlayerIDs: ids,
	})
	require.NoError(t, err)
	require.NotNil(t, tournament)
	assert.NotEmpty(t, tournament.ID)
	assert.Equal(t, models.StatusCreated, tournament.Status)

	require.Len(t, env.store.teams, 4)
	require.Len(t, env.store.matches, 6)

	// Каждый игрок попадает ровно в одну команду.
	assigned := make(map[string]int)
	for _, team := range env.store.teams {
		assert.Equal(t, tournament.ID, team.TournamentID)
		assigned[team.Player1Name]++
		assigned[team.Player2Name]++
	}
	require.Len(t, assigned, 8)
	for name, n := range assigned {
		assert.Equal(t, 1, n, "player %s", name)
	}

	for _, m := range env.store.matches {
		assert.Equal(t, 0, m.RoundNumber)
		assert.False(t, m.IsFinished)
	}
}

func TestCreateTournamentElimination(t *testing.T) {
	env := newTestEnv()
	ids := seedRoster(env, 6)
	svc := newTournamentService(env)

	_, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		Name:      "Coupe",
		Format:    models.FormatElimination,
		PlayerIDs: ids,
	})
	require.NoError(t, err)

	// Шесть игроков — три команды: две играют, третья вне сетки.
	require.Len(t, env.store.teams, 3)
	require.Len(t, env.store.matches, 1)
	assert.Equal(t, env.store.teams[0].ID, env.store.matches[0].TeamAID)
	assert.Equal(t, env.store.teams[1].ID, env.store.matches[0].TeamBID)
}

func TestCreateTournamentDefaultName(t *testing.T) {
	env := newTestEnv()
	ids := seedRoster(env, 4)
	svc := newTournamentService(env)

	tournament, err := svc.CreateTournament(context.Background(), CreateTournamentInput{
		Format:    models.FormatRoundRobin,
		PlayerIDs: ids,
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Tournoi du %s", time.Now().Format("02/01/2006")), tournament.Name)
}

func TestGetTournament(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		env := newTestEnv()
		svc := newTournamentService(env)
		_, err := svc.GetTournament(ctx, "nope")
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})

	t.Run("round robin view carries standings", func(t *testing.T) {
		env := newTestEnv()
		ids := seedRoster(env, 4)
		svc := newTournamentService(env)

		tournament, err := svc.CreateTournament(ctx, CreateTournamentInput{
			Name: "Championnat", Format: models.FormatRoundRobin, PlayerIDs: ids,
		})
		require.NoError(t, err)

		env.store.matches[0].ScoreA = 620
		env.store.matches[0].ScoreB = 410
		env.store.matches[0].IsFinished = true

		view, err := svc.GetTournament(ctx, tournament.ID)
		require.NoError(t, err)
		require.Len(t, view.Teams, 2)
		require.Len(t, view.Matches, 1)
		require.Len(t, view.Standings, 2)
		assert.Nil(t, view.Champion)
		assert.Equal(t, view.Teams[0].ID, view.Standings[0].TeamID)
		assert.Equal(t, 3, view.Standings[0].Points)
		assert.Equal(t, 210, view.Standings[0].Diff)
	})

	t.Run("elimination champion is inferred from the final", func(t *testing.T) {
		env := newTestEnv()
		ids := seedRoster(env, 4)
		svc := newTournamentService(env)

		tournament, err := svc.CreateTournament(ctx, CreateTournamentInput{
			Name: "Coupe", Format: models.FormatElimination, PlayerIDs: ids,
		})
		require.NoError(t, err)
		require.Len(t, env.store.matches, 1)

		view, err := svc.GetTournament(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Champion, "final not played yet")
		assert.Nil(t, view.Standings)

		env.store.matches[0].ScoreA = 380
		env.store.matches[0].ScoreB = 545
		env.store.matches[0].IsFinished = true

		view, err = svc.GetTournament(ctx, tournament.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Champion)
		assert.Equal(t, env.store.teams[1].ID, view.Champion.ID)
	})
}

func TestDeleteTournament(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		env := newTestEnv()
		svc := newTournamentService(env)
		assert.ErrorIs(t, svc.DeleteTournament(ctx, "nope"), ErrTournamentNotFound)
	})

	t.Run("cascades and recomputes every player", func(t *testing.T) {
		env := newTestEnv()
		ids := seedRoster(env, 4)
		svc := newTournamentService(env)

		tournament, err := svc.CreateTournament(ctx, CreateTournamentInput{
			Name: "Éphémère", Format: models.FormatRoundRobin, PlayerIDs: ids,
		})
		require.NoError(t, err)

		// Доигрываем единственный матч и фиксируем статистику.
		env.store.matches[0].ScoreA = 500
		env.store.matches[0].ScoreB = 300
		env.store.matches[0].IsFinished = true
		for _, p := range env.store.players {
			require.NoError(t, env.stats.RecalculatePlayer(ctx, p.Name))
		}
		require.Equal(t, 1, env.playerByName("Joueur 1").MatchesPlayed)
		require.Equal(t, 500, env.playerByName("Joueur 1").TotalPoints)

		require.NoError(t, svc.DeleteTournament(ctx, tournament.ID))

		assert.Empty(t, env.store.tournaments)
		assert.Empty(t, env.store.teams)
		assert.Empty(t, env.store.matches)
		for _, p := range env.store.players {
			assert.Zero(t, p.MatchesPlayed, "player %s", p.Name)
			assert.Zero(t, p.MatchesWon, "player %s", p.Name)
			assert.Zero(t, p.TotalPoints, "player %s", p.Name)
		}
	})
}
