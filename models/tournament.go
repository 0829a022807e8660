package models

import "time"

// TournamentFormat определяет способ розыгрыша турнира.
type TournamentFormat string

const (
	// FormatRoundRobin — «чемпионат»: каждая команда играет с каждой один раз.
	FormatRoundRobin TournamentFormat = "round_robin"
	// FormatElimination — «дерево»: проигравшие выбывают после каждого раунда.
	FormatElimination TournamentFormat = "elimination"
)

func (f TournamentFormat) Valid() bool {
	return f == FormatRoundRobin || f == FormatElimination
}

// TournamentStatus соответствует ENUM-подобному текстовому полю в БД.
// Статус информационный: ни одна операция на него не опирается.
type TournamentStatus string

const (
	StatusCreated  TournamentStatus = "created"
	StatusStarted  TournamentStatus = "started"
	StatusFinished TournamentStatus = "finished"
)

// Tournament представляет турнир. Команды и матчи принадлежат ему
// транзитивно и удаляются каскадом вместе с ним.
type Tournament struct {
	ID        string           `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Format    TournamentFormat `json:"format" db:"format"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Teams   []*Team  `json:"teams,omitempty" db:"-"`
	Matches []*Match `json:"matches,omitempty" db:"-"`
}
