package models

// CapotScore — фиксированный счёт раздачи, в которой одна сторона
// забрала все взятки: 252 победителю, 0 проигравшему.
const CapotScore = 252

// BeloteBonus — премия за белот (король + дама козыря), в очках.
// Флаги belote_a/belote_b — записанный факт; счёт раздачи они НЕ меняют:
// бонус вносится на стороне ввода счёта. Исторические строки, сохранённые
// до этого исправления, чинит отдельная административная операция.
const BeloteBonus = 20

// Round — одна раздача внутри матча. Не путать с RoundNumber у Match:
// RoundIndex — порядковый номер раздачи (с единицы), уникальный в
// пределах матча.
type Round struct {
	ID         string `json:"id" db:"id"`
	MatchID    string `json:"match_id" db:"match_id"`
	RoundIndex int    `json:"round_index" db:"round_index"`
	ScoreA     int    `json:"score_a" db:"score_a"`
	ScoreB     int    `json:"score_b" db:"score_b"`
	BeloteA    bool   `json:"belote_a" db:"belote_a"`
	BeloteB    bool   `json:"belote_b" db:"belote_b"`
	CapotA     bool   `json:"capot_a" db:"capot_a"`
	CapotB     bool   `json:"capot_b" db:"capot_b"`
}
