package services

import (
	"context"

	"github.com/Dosada05/belote-club/models"
	"github.com/Dosada05/belote-club/repositories"
	"golang.org/x/sync/errgroup"
)

const topPlayersLimit = 5

type DashboardService interface {
	GetClubStats(ctx context.Context) (*models.ClubStats, error)
}

type dashboardService struct {
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
}

func NewDashboardService(
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
) DashboardService {
	return &dashboardService{
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
	}
}

// GetClubStats собирает сводку клуба. Счётчики независимы, поэтому
// запросы уходят параллельно через errgroup.
func (s *dashboardService) GetClubStats(ctx context.Context) (*models.ClubStats, error) {
	stats := &models.ClubStats{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.PlayersTotal, err = s.playerRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.TournamentsTotal, err = s.tournamentRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.MatchesTotal, err = s.matchRepo.Count(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.MatchesFinished, err = s.matchRepo.CountFinished(gCtx)
		return err
	})
	g.Go(func() (err error) {
		stats.TopPlayers, err = s.playerRepo.ListTop(gCtx, topPlayersLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
