package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Dosada05/belote-club/models"
	"github.com/Dosada05/belote-club/repositories"
	"github.com/Dosada05/belote-club/storage"
	"github.com/google/uuid"
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, name string) (*models.Player, error)
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]*models.Player, error)
	DeletePlayer(ctx context.Context, id string) error
	UploadAvatar(ctx context.Context, playerID string, contentType string, file io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader // nil, если хранилище не настроено
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		uploader:   uploader,
	}
}

// CreatePlayer регистрирует игрока клуба. Имя уникально: по нему команды
// ссылаются на игроков, и по нему же пересчитывается статистика.
func (s *playerService) CreatePlayer(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNameConflict) {
			return nil, ErrPlayerNameConflict
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	s.populateAvatarURL(player)
	return player, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		s.populateAvatarURL(p)
	}
	return players, nil
}

// DeletePlayer удаляет игрока из реестра. Исторические команды хранят
// имя снимком, поэтому сыгранные турниры остаются нетронутыми.
func (s *playerService) DeletePlayer(ctx context.Context, id string) error {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}

	if s.uploader != nil && player.AvatarKey != nil {
		if delErr := s.uploader.Delete(ctx, *player.AvatarKey); delErr != nil {
			// Осиротевший объект в хранилище не стоит отмены удаления игрока.
			fmt.Printf("failed to delete avatar %s: %v\n", *player.AvatarKey, delErr)
		}
	}
	return nil
}

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (s *playerService) UploadAvatar(ctx context.Context, playerID string, contentType string, file io.Reader) (*models.Player, error) {
	if s.uploader == nil {
		return nil, ErrAvatarStorageDisabled
	}
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedAvatarType
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("players/%s/avatar%s", playerID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	if player.AvatarKey != nil && *player.AvatarKey != key {
		if delErr := s.uploader.Delete(ctx, *player.AvatarKey); delErr != nil {
			fmt.Printf("failed to delete previous avatar %s: %v\n", *player.AvatarKey, delErr)
		}
	}

	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &key); err != nil {
		return nil, err
	}
	player.AvatarKey = &key
	s.populateAvatarURL(player)
	return player, nil
}

func (s *playerService) populateAvatarURL(p *models.Player) {
	if s.uploader == nil || p.AvatarKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*p.AvatarKey)
	if url != "" {
		p.AvatarURL = &url
	}
}
