package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Dosada05/belote-club/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (u *fakeUploader) Upload(_ context.Context, key string, _ string, _ io.Reader) (*storage.UploadResult, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example/" + key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example/" + key
}

func TestCreatePlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and stores the name", func(t *testing.T) {
		env := newTestEnv()
		svc := NewPlayerService(env.playerRepo, nil)

		player, err := svc.CreatePlayer(ctx, "  Marcel  ")
		require.NoError(t, err)
		assert.Equal(t, "Marcel", player.Name)
		assert.NotEmpty(t, player.ID)
		assert.Zero(t, player.MatchesPlayed)
	})

	t.Run("blank name", func(t *testing.T) {
		env := newTestEnv()
		svc := NewPlayerService(env.playerRepo, nil)
		_, err := svc.CreatePlayer(ctx, "   ")
		assert.ErrorIs(t, err, ErrPlayerNameRequired)
	})

	t.Run("duplicate name", func(t *testing.T) {
		env := newTestEnv()
		svc := NewPlayerService(env.playerRepo, nil)
		_, err := svc.CreatePlayer(ctx, "Marcel")
		require.NoError(t, err)
		_, err = svc.CreatePlayer(ctx, "Marcel")
		assert.ErrorIs(t, err, ErrPlayerNameConflict)
	})
}

func TestDeletePlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		env := newTestEnv()
		svc := NewPlayerService(env.playerRepo, nil)
		assert.ErrorIs(t, svc.DeletePlayer(ctx, "nope"), ErrPlayerNotFound)
	})

	t.Run("removes the player and the stored avatar", func(t *testing.T) {
		env := newTestEnv()
		uploader := &fakeUploader{}
		svc := NewPlayerService(env.playerRepo, uploader)

		player, err := svc.CreatePlayer(ctx, "Marcel")
		require.NoError(t, err)
		_, err = svc.UploadAvatar(ctx, player.ID, "image/png", strings.NewReader("img"))
		require.NoError(t, err)

		require.NoError(t, svc.DeletePlayer(ctx, player.ID))
		assert.Empty(t, env.store.players)
		require.Len(t, uploader.deleted, 1)
		assert.Equal(t, "players/"+player.ID+"/avatar.png", uploader.deleted[0])
	})
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("storage not configured", func(t *testing.T) {
		env := newTestEnv()
		svc := NewPlayerService(env.playerRepo, nil)
		_, err := svc.UploadAvatar(ctx, "p1", "image/png", strings.NewReader("img"))
		assert.ErrorIs(t, err, ErrAvatarStorageDisabled)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		env := newTestEnv()
		svc := NewPlayerService(env.playerRepo, &fakeUploader{})
		_, err := svc.UploadAvatar(ctx, "p1", "image/gif", strings.NewReader("img"))
		assert.ErrorIs(t, err, ErrUnsupportedAvatarType)
	})

	t.Run("stores the object and publishes the URL", func(t *testing.T) {
		env := newTestEnv()
		uploader := &fakeUploader{}
		svc := NewPlayerService(env.playerRepo, uploader)

		player, err := svc.CreatePlayer(ctx, "Marcel")
		require.NoError(t, err)

		updated, err := svc.UploadAvatar(ctx, player.ID, "image/jpeg", strings.NewReader("img"))
		require.NoError(t, err)
		require.NotNil(t, updated.AvatarKey)
		key := "players/" + player.ID + "/avatar.jpg"
		assert.Equal(t, key, *updated.AvatarKey)
		require.NotNil(t, updated.AvatarURL)
		assert.Equal(t, "https://cdn.example/"+key, *updated.AvatarURL)
		assert.Equal(t, []string{key}, uploader.uploaded)

		// Новый формат вытесняет старый объект.
		_, err = svc.UploadAvatar(ctx, player.ID, "image/webp", strings.NewReader("img"))
		require.NoError(t, err)
		assert.Equal(t, []string{key}, uploader.deleted)
	})

	t.Run("upload failure leaves the player untouched", func(t *testing.T) {
		env := newTestEnv()
		uploader := &fakeUploader{uploadErr: errors.New("bucket unavailable")}
		svc := NewPlayerService(env.playerRepo, uploader)

		player, err := svc.CreatePlayer(ctx, "Marcel")
		require.NoError(t, err)

		_, err = svc.UploadAvatar(ctx, player.ID, "image/png", strings.NewReader("img"))
		require.Error(t, err)
		assert.Nil(t, env.playerByName("Marcel").AvatarKey)
	})
}
