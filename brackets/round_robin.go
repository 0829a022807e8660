package brackets

type RoundRobinPlanner struct{}

func NewRoundRobinPlanner() MatchPlanner {
	return &RoundRobinPlanner{}
}

func (p *RoundRobinPlanner) GetName() string {
	return "RoundRobin"
}

// PlanInitialRound создаёт по одному матчу на каждую неупорядоченную пару
// команд: для n команд получается n*(n-1)/2 матчей. Круговой формат не
// имеет стадий, все матчи лежат в стадии 0.
func (p *RoundRobinPlanner) PlanInitialRound(teamIDs []string) []Pairing {
	pairings := make([]Pairing, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			pairings = append(pairings, Pairing{
				TeamAID:     teamIDs[i],
				TeamBID:     teamIDs[j],
				RoundNumber: 0,
			})
		}
	}
	return pairings
}
