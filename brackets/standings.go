package brackets

import (
	"sort"

	"github.com/Dosada05/belote-club/models"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1
)

// ComputeStandings строит турнирную таблицу round_robin по завершённым
// матчам: победа — 3 очка, ничья — по одному каждой стороне, разница
// счёта копится со знаком. Сортировка: очки по убыванию, затем разница
// по убыванию; дальше порядок входных команд сохраняется — это
// зафиксированное поведение, а не случайность реализации.
func ComputeStandings(teams []*models.Team, matches []*models.Match) []*models.TeamStanding {
	byTeam := make(map[string]*models.TeamStanding, len(teams))
	table := make([]*models.TeamStanding, 0, len(teams))

	for _, t := range teams {
		row := &models.TeamStanding{
			TeamID: t.ID,
			Name:   t.DisplayName(),
		}
		byTeam[t.ID] = row
		table = append(table, row)
	}

	for _, m := range matches {
		if !m.IsFinished {
			continue
		}
		rowA, okA := byTeam[m.TeamAID]
		rowB, okB := byTeam[m.TeamBID]
		if !okA || !okB {
			continue
		}

		rowA.Played++
		rowB.Played++
		rowA.Diff += m.ScoreA - m.ScoreB
		rowB.Diff += m.ScoreB - m.ScoreA

		switch {
		case m.ScoreA > m.ScoreB:
			rowA.Wins++
			rowA.Points += pointsPerWin
		case m.ScoreB > m.ScoreA:
			rowB.Wins++
			rowB.Points += pointsPerWin
		default:
			rowA.Points += pointsPerDraw
			rowB.Points += pointsPerDraw
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		return table[i].Diff > table[j].Diff
	})

	return table
}
