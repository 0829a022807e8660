package brackets

import "github.com/Dosada05/belote-club/models"

// TiePolicy задаёт, кто проходит дальше, если «завершённый» матч на
// выбывание закончился равным счётом. Правила белота ничью почти
// исключают, но она легальна, поэтому политика явная и настраиваемая.
type TiePolicy int

const (
	// TieAdvanceTeamA — поведение исходной системы: при равенстве
	// проходит команда A.
	TieAdvanceTeamA TiePolicy = iota
	TieAdvanceTeamB
)

type SingleEliminationPlanner struct{}

func NewSingleEliminationPlanner() MatchPlanner {
	return &SingleEliminationPlanner{}
}

func (p *SingleEliminationPlanner) GetName() string {
	return "SingleElimination"
}

// PlanInitialRound спаривает команды по порядку следования, по две за
// матч. При нечётном числе команд последняя остаётся без матча и в сетку
// не попадает — осознанная политика формата, а не недосмотр.
func (p *SingleEliminationPlanner) PlanInitialRound(teamIDs []string) []Pairing {
	pairings := make([]Pairing, 0, len(teamIDs)/2)
	for i := 0; i+1 < len(teamIDs); i += 2 {
		pairings = append(pairings, Pairing{
			TeamAID:     teamIDs[i],
			TeamBID:     teamIDs[i+1],
			RoundNumber: 0,
		})
	}
	return pairings
}

// WinnerTeamID определяет победителя завершённого матча. Строгое
// превосходство по очкам выигрывает; равенство разрешается политикой.
func WinnerTeamID(m *models.Match, policy TiePolicy) string {
	switch {
	case m.ScoreA > m.ScoreB:
		return m.TeamAID
	case m.ScoreB > m.ScoreA:
		return m.TeamBID
	case policy == TieAdvanceTeamB:
		return m.TeamBID
	default:
		return m.TeamAID
	}
}

// RoundComplete сообщает, завершены ли все матчи стадии.
func RoundComplete(roundMatches []*models.Match) bool {
	for _, m := range roundMatches {
		if !m.IsFinished {
			return false
		}
	}
	return len(roundMatches) > 0
}

// AdvanceRound строит матчи следующей стадии из победителей текущей.
// Матчи должны быть поданы в порядке вставки (seq): пары собираются по
// два подряд. Стадия из одного матча — финал, дальше двигаться некуда.
// При нечётном числе матчей замыкающий остаётся без пары и его
// победитель никуда не проходит — та же политика, что при составлении.
func AdvanceRound(roundMatches []*models.Match, policy TiePolicy) []Pairing {
	if !RoundComplete(roundMatches) || len(roundMatches) <= 1 {
		return nil
	}

	next := make([]Pairing, 0, len(roundMatches)/2)
	for i := 0; i+1 < len(roundMatches); i += 2 {
		m1 := roundMatches[i]
		m2 := roundMatches[i+1]
		next = append(next, Pairing{
			TeamAID:     WinnerTeamID(m1, policy),
			TeamBID:     WinnerTeamID(m2, policy),
			RoundNumber: m1.RoundNumber + 1,
		})
	}
	return next
}
