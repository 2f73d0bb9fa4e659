package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yekna/dj-jukebox/internal/errs"
	"github.com/Yekna/dj-jukebox/internal/model"
	"github.com/Yekna/dj-jukebox/internal/storage"
)

// RoomService implements the room session API: room lifecycle, song
// submission, vote toggling and status changes. Every mutation persists
// through the store first and then notifies the hub.
type RoomService struct {
	store       storage.Store
	hub         *RoomHub
	pinAttempts int
	log         *zap.Logger
}

// NewRoomService creates a room service. pinAttempts caps random PIN draws on
// collision before CreateRoom gives up.
func NewRoomService(store storage.Store, hub *RoomHub, pinAttempts int, log *zap.Logger) *RoomService {
	if pinAttempts <= 0 {
		pinAttempts = 25
	}
	return &RoomService{store: store, hub: hub, pinAttempts: pinAttempts, log: log}
}

// CreateRoom returns the owner's existing active room unchanged, or creates a
// new one under a freshly drawn 4-digit PIN. The store's uniqueness guarantees
// make this idempotent even under concurrent calls by the same owner.
func (s *RoomService) CreateRoom(ctx context.Context, djID, djName string) (*model.Room, error) {
	room, err := s.store.ActiveRoomByDJ(ctx, djID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, errs.ErrRoomNotFound) {
		return nil, err
	}

	for i := 0; i < s.pinAttempts; i++ {
		room = &model.Room{
			ID:     uuid.New().String(),
			Pin:    randomPin(),
			DJID:   djID,
			DJName: djName,
			Active: true,
		}
		err = s.store.CreateRoom(ctx, room)
		switch {
		case err == nil:
			s.log.Info("room created",
				zap.String("pin", room.Pin),
				zap.String("dj_id", djID))
			return room, nil
		case errors.Is(err, errs.ErrPinInUse):
			continue
		case errors.Is(err, errs.ErrOwnerHasActiveRoom):
			// Lost a create race against ourselves; return the winner.
			return s.store.ActiveRoomByDJ(ctx, djID)
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", errs.ErrPinSpaceExhausted, s.pinAttempts)
}

// GetRoom resolves the active room for pin.
func (s *RoomService) GetRoom(ctx context.Context, pin string) (*model.Room, error) {
	return s.store.ActiveRoomByPin(ctx, pin)
}

// CloseRoom flips the room inactive and tells every listener. Listeners are
// not disconnected; their transports close on their own schedule.
func (s *RoomService) CloseRoom(ctx context.Context, pin, actingID string) error {
	room, err := s.store.ActiveRoomByPin(ctx, pin)
	if err != nil {
		return err
	}
	if room.DJID != actingID {
		return errs.ErrForbidden
	}
	if err := s.store.CloseRoom(ctx, room.ID); err != nil {
		return err
	}
	s.log.Info("room closed", zap.String("pin", pin), zap.String("dj_id", actingID))
	s.hub.Broadcast(pin, model.RoomClosedEvent())
	return nil
}

// RequestSong appends a song to the room's queue. The video reference is
// trusted client input; there is no server-side lookup here.
func (s *RoomService) RequestSong(ctx context.Context, pin string, req model.SubmitSongRequest) (*model.SongRequest, error) {
	room, err := s.store.ActiveRoomByPin(ctx, pin)
	if err != nil {
		return nil, err
	}
	role := req.RequesterRole
	if role != model.RoleDJ {
		role = model.RoleGuest
	}
	song := &model.SongRequest{
		ID:            uuid.New().String(),
		RoomID:        room.ID,
		VideoID:       req.VideoID,
		Title:         req.Title,
		Thumbnail:     req.Thumbnail,
		VideoURL:      req.VideoURL,
		RequestedBy:   req.RequestedBy,
		RequesterRole: role,
		Votes:         0,
		Status:        model.StatusPending,
	}
	if err := s.store.CreateSong(ctx, song); err != nil {
		return nil, err
	}
	s.log.Info("song requested",
		zap.String("pin", pin),
		zap.String("song_id", song.ID),
		zap.String("video_id", song.VideoID))
	s.hub.Broadcast(pin, model.SongRequestedEvent(song))
	return song, nil
}

// ListSongs returns the room's queue ordered by creation time ascending.
func (s *RoomService) ListSongs(ctx context.Context, pin string) ([]model.SongRequest, error) {
	room, err := s.store.ActiveRoomByPin(ctx, pin)
	if err != nil {
		return nil, err
	}
	return s.store.SongsByRoom(ctx, room.ID)
}

// Vote toggles voterID's vote on the song: on if absent, off if present. The
// store makes the toggle atomic, so concurrent toggles for the same pair
// serialize instead of double-applying.
func (s *RoomService) Vote(ctx context.Context, songID, voterID string) (*model.SongRequest, error) {
	song, err := s.store.ToggleVote(ctx, songID, voterID)
	if err != nil {
		return nil, err
	}
	s.log.Info("vote toggled",
		zap.String("song_id", songID),
		zap.Int("votes", song.Votes))
	if room, err := s.store.RoomByID(ctx, song.RoomID); err == nil {
		s.hub.Broadcast(room.Pin, model.SongVotedEvent(song))
	}
	return song, nil
}

// SetStatus moves a song between pending, playing and played. Only the DJ of
// the song's room may call it.
func (s *RoomService) SetStatus(ctx context.Context, songID string, status model.SongStatus, actingID string) (*model.SongRequest, error) {
	song, err := s.store.SongByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	room, err := s.store.RoomByID(ctx, song.RoomID)
	if err != nil {
		return nil, err
	}
	if room.DJID != actingID {
		return nil, errs.ErrForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidStatus, status)
	}
	song, err = s.store.UpdateStatus(ctx, songID, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("song status changed",
		zap.String("song_id", songID),
		zap.String("status", string(status)))
	s.hub.Broadcast(room.Pin, model.SongStatusChangedEvent(song))
	return song, nil
}

// randomPin draws a uniform 4-digit pin, "0000" through "9999".
func randomPin() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}
