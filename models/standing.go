package models

// TeamStanding — строка турнирной таблицы round_robin. Таблица не
// хранится: она каждый раз вычисляется заново по завершённым матчам.
type TeamStanding struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Played int    `json:"played"`
	Wins   int    `json:"wins"`
	Points int    `json:"points"`
	Diff   int    `json:"diff"`
}
