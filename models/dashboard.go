package models

// ClubStats — сводка для главной страницы клуба.
type ClubStats struct {
	PlayersTotal     int       `json:"players_total"`
	TournamentsTotal int       `json:"tournaments_total"`
	MatchesTotal     int       `json:"matches_total"`
	MatchesFinished  int       `json:"matches_finished"`
	TopPlayers       []*Player `json:"top_players"`
}
