package models

// Match — встреча двух команд. RoundNumber — стадия сетки (0 — первый
// раунд); для round_robin всегда 0. Seq фиксирует порядок вставки, по
// нему пары матчей сопоставляются при продвижении сетки.
type Match struct {
	ID           string `json:"id" db:"id"`
	TournamentID string `json:"tournament_id" db:"tournament_id"`
	RoundNumber  int    `json:"round_number" db:"round_number"`
	TeamAID      string `json:"team_a_id" db:"team_a_id"`
	TeamBID      string `json:"team_b_id" db:"team_b_id"`
	ScoreA       int    `json:"score_a" db:"score_a"`
	ScoreB       int    `json:"score_b" db:"score_b"`
	IsFinished   bool   `json:"is_finished" db:"is_finished"`
	Seq          int64  `json:"-" db:"seq"`

	// Имена участников обеих команд, подтянутые JOIN-ом для отображения.
	TeamA *Team `json:"team_a,omitempty" db:"-"`
	TeamB *Team `json:"team_b,omitempty" db:"-"`
}

// PlayerMatchSide — взгляд на завершённый матч со стороны конкретного
// игрока; строится репозиторием для пересчёта статистики.
type PlayerMatchSide struct {
	MatchID      string
	ScoreFor     int
	ScoreAgainst int
}

// Won reports whether the player's side took the match outright.
func (s PlayerMatchSide) Won() bool {
	return s.ScoreFor > s.ScoreAgainst
}
