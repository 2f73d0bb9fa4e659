package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yekna/dj-jukebox/internal/errs"
	"github.com/Yekna/dj-jukebox/internal/model"
	"github.com/Yekna/dj-jukebox/internal/storage/memory"
)

func TestStore_RoomUniqueness(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a second active room for the same owner", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateRoom(ctx, &model.Room{ID: "r1", Pin: "1111", DJID: "d1", Active: true}))

		err := s.CreateRoom(ctx, &model.Room{ID: "r2", Pin: "2222", DJID: "d1", Active: true})
		assert.ErrorIs(t, err, errs.ErrOwnerHasActiveRoom)
	})

	t.Run("rejects a duplicate active pin", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateRoom(ctx, &model.Room{ID: "r1", Pin: "1111", DJID: "d1", Active: true}))

		err := s.CreateRoom(ctx, &model.Room{ID: "r2", Pin: "1111", DJID: "d2", Active: true})
		assert.ErrorIs(t, err, errs.ErrPinInUse)
	})

	t.Run("a closed room frees both pin and owner", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateRoom(ctx, &model.Room{ID: "r1", Pin: "1111", DJID: "d1", Active: true}))
		require.NoError(t, s.CloseRoom(ctx, "r1"))

		assert.NoError(t, s.CreateRoom(ctx, &model.Room{ID: "r2", Pin: "1111", DJID: "d1", Active: true}))
	})

	t.Run("active lookups ignore closed rooms but RoomByID does not", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateRoom(ctx, &model.Room{ID: "r1", Pin: "1111", DJID: "d1", Active: true}))
		require.NoError(t, s.CloseRoom(ctx, "r1"))

		_, err := s.ActiveRoomByPin(ctx, "1111")
		assert.ErrorIs(t, err, errs.ErrRoomNotFound)
		_, err = s.ActiveRoomByDJ(ctx, "d1")
		assert.ErrorIs(t, err, errs.ErrRoomNotFound)

		room, err := s.RoomByID(ctx, "r1")
		require.NoError(t, err)
		assert.False(t, room.Active)
	})
}

func TestStore_SongsByRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by creation time ascending", func(t *testing.T) {
		s := memory.New()
		base := time.Now()
		// Inserted out of order on purpose.
		inserts := []struct {
			id     string
			offset time.Duration
		}{
			{"s3", 3 * time.Second},
			{"s1", 1 * time.Second},
			{"s2", 2 * time.Second},
		}
		for _, in := range inserts {
			require.NoError(t, s.CreateSong(ctx, &model.SongRequest{
				ID:        in.id,
				RoomID:    "r1",
				VideoID:   "v",
				Title:     "T",
				CreatedAt: base.Add(in.offset),
			}))
		}

		songs, err := s.SongsByRoom(ctx, "r1")
		require.NoError(t, err)
		require.Len(t, songs, 3)
		assert.Equal(t, "s1", songs[0].ID)
		assert.Equal(t, "s2", songs[1].ID)
		assert.Equal(t, "s3", songs[2].ID)
	})

	t.Run("excludes other rooms", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateSong(ctx, &model.SongRequest{ID: "s1", RoomID: "r1", VideoID: "v", Title: "T"}))
		require.NoError(t, s.CreateSong(ctx, &model.SongRequest{ID: "s2", RoomID: "r2", VideoID: "v", Title: "T"}))

		songs, err := s.SongsByRoom(ctx, "r1")
		require.NoError(t, err)
		require.Len(t, songs, 1)
		assert.Equal(t, "s1", songs[0].ID)
	})
}

func TestStore_ToggleVote(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps count equal to voter set size across toggles", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateSong(ctx, &model.SongRequest{ID: "s1", RoomID: "r1", VideoID: "v", Title: "T"}))

		song, err := s.ToggleVote(ctx, "s1", "a")
		require.NoError(t, err)
		assert.Equal(t, 1, song.Votes)
		assert.Len(t, song.Voters, 1)

		song, err = s.ToggleVote(ctx, "s1", "b")
		require.NoError(t, err)
		assert.Equal(t, 2, song.Votes)

		song, err = s.ToggleVote(ctx, "s1", "a")
		require.NoError(t, err)
		assert.Equal(t, 1, song.Votes)
		assert.False(t, song.HasVoter("a"))
		assert.True(t, song.HasVoter("b"))
	})

	t.Run("unknown song is not found", func(t *testing.T) {
		s := memory.New()
		_, err := s.ToggleVote(ctx, "missing", "a")
		assert.ErrorIs(t, err, errs.ErrSongNotFound)
	})

	t.Run("returned songs are copies, not shared state", func(t *testing.T) {
		s := memory.New()
		require.NoError(t, s.CreateSong(ctx, &model.SongRequest{ID: "s1", RoomID: "r1", VideoID: "v", Title: "T"}))

		song, err := s.ToggleVote(ctx, "s1", "a")
		require.NoError(t, err)
		song.Votes = 99
		song.Voters = nil

		fresh, err := s.SongByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 1, fresh.Votes)
		assert.Len(t, fresh.Voters, 1)
	})
}
