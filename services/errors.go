package services

import "errors"

// Общие ошибки сервисного слоя; HTTP-маппинг живёт в handlers.
var (
	// Ресурс не найден
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")

	// Ошибки валидации и бизнес-правил
	ErrInvalidFormat      = errors.New("unknown tournament format")
	ErrNotEnoughPlayers   = errors.New("at least 4 players are required")
	ErrOddPlayerCount     = errors.New("player count must be even")
	ErrPlayerUnresolved   = errors.New("some selected players could not be found")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrRoundIndexInvalid  = errors.New("round index must be 1 or greater")

	// Ошибки конфликтов
	ErrPlayerNameConflict = errors.New("player with this name already exists")

	// Аватары (опциональное хранилище)
	ErrAvatarStorageDisabled = errors.New("avatar storage is not configured")
	ErrUnsupportedAvatarType = errors.New("unsupported avatar content type")
)
