package models

// Player — член клуба. Три числовых поля являются производным кэшем:
// они целиком перезаписываются пересчётом статистики и никогда не
// редактируются вручную.
type Player struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	MatchesPlayed int    `json:"matches_played" db:"matches_played"`
	MatchesWon    int    `json:"matches_won" db:"matches_won"`
	TotalPoints   int    `json:"total_points" db:"total_points"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}

// PlayerStats — свежевычисленный агрегат по завершённым матчам игрока.
type PlayerStats struct {
	MatchesPlayed int
	MatchesWon    int
	TotalPoints   int
}
