package models

// Team — пара игроков внутри одного турнира. Имена игроков здесь —
// снимок на момент формирования состава: переименование или удаление
// игрока не меняет исторические команды.
type Team struct {
	ID           string `json:"id" db:"id"`
	TournamentID string `json:"tournament_id" db:"tournament_id"`
	Player1Name  string `json:"player1_name" db:"player1_name"`
	Player2Name  string `json:"player2_name" db:"player2_name"`
}

// DisplayName renders the pair the way the club UI shows it.
func (t *Team) DisplayName() string {
	return t.Player1Name + " & " + t.Player2Name
}
