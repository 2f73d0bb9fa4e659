// Package postgres implements storage.Store on GORM/PostgreSQL. Uniqueness of
// active pins and active rooms per owner is enforced by partial unique indexes
// (see database/migrations); vote toggles run in a transaction with the song
// row locked.
package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Yekna/dj-jukebox/internal/errs"
	"github.com/Yekna/dj-jukebox/internal/model"
)

// Store is the GORM-backed persistence layer.
type Store struct {
	db *gorm.DB
}

// New creates a postgres store over an open GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateRoom(ctx context.Context, room *model.Room) error {
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch {
			case strings.Contains(pqErr.Constraint, "dj"):
				return errs.ErrOwnerHasActiveRoom
			default:
				return errs.ErrPinInUse
			}
		}
		return err
	}
	return nil
}

func (s *Store) ActiveRoomByPin(ctx context.Context, pin string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Where("pin = ? AND active", pin).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *Store) ActiveRoomByDJ(ctx context.Context, djID string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Where("dj_id = ? AND active", djID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *Store) RoomByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *Store) CloseRoom(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ? AND active", id).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrRoomNotFound
	}
	return nil
}

func (s *Store) CreateSong(ctx context.Context, song *model.SongRequest) error {
	return s.db.WithContext(ctx).Create(song).Error
}

func (s *Store) SongByID(ctx context.Context, id string) (*model.SongRequest, error) {
	var song model.SongRequest
	err := s.db.WithContext(ctx).Preload("Voters").Where("id = ?", id).First(&song).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSongNotFound
		}
		return nil, err
	}
	return &song, nil
}

func (s *Store) SongsByRoom(ctx context.Context, roomID string) ([]model.SongRequest, error) {
	var songs []model.SongRequest
	err := s.db.WithContext(ctx).Preload("Voters").
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&songs).Error
	if err != nil {
		return nil, err
	}
	return songs, nil
}

// ToggleVote runs the whole membership-check / insert-or-delete / count-step
// sequence in one transaction with the song row locked, so two concurrent
// toggles for the same (song, voter) pair serialize instead of double-applying
// the same delta.
func (s *Store) ToggleVote(ctx context.Context, songID, voterID string) (*model.SongRequest, error) {
	var updated *model.SongRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var song model.SongRequest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", songID).First(&song).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrSongNotFound
			}
			return err
		}

		res := tx.Where("song_id = ? AND voter_id = ?", songID, voterID).
			Delete(&model.SongVote{})
		if res.Error != nil {
			return res.Error
		}
		delta := -1
		if res.RowsAffected == 0 {
			if err := tx.Create(&model.SongVote{SongID: songID, VoterID: voterID}).Error; err != nil {
				return err
			}
			delta = 1
		}

		if err := tx.Model(&model.SongRequest{}).Where("id = ?", songID).
			Update("votes", gorm.Expr("votes + ?", delta)).Error; err != nil {
			return err
		}

		var reloaded model.SongRequest
		if err := tx.Preload("Voters").Where("id = ?", songID).First(&reloaded).Error; err != nil {
			return err
		}
		updated = &reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) UpdateStatus(ctx context.Context, songID string, status model.SongStatus) (*model.SongRequest, error) {
	res := s.db.WithContext(ctx).Model(&model.SongRequest{}).
		Where("id = ?", songID).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errs.ErrSongNotFound
	}
	return s.SongByID(ctx, songID)
}
