package brackets

import "github.com/Dosada05/belote-club/models"

// Pairing — заготовка матча: две команды и номер стадии сетки.
type Pairing struct {
	TeamAID     string
	TeamBID     string
	RoundNumber int
}

// MatchPlanner строит стартовый набор матчей турнира по списку команд.
// Порядок команд на входе уже перемешан композитором.
type MatchPlanner interface {
	PlanInitialRound(teamIDs []string) []Pairing

	GetName() string
}

// PlannerForFormat выбирает генератор под формат турнира.
func PlannerForFormat(format models.TournamentFormat) MatchPlanner {
	switch format {
	case models.FormatElimination:
		return NewSingleEliminationPlanner()
	default:
		return NewRoundRobinPlanner()
	}
}
