package model

import "time"

// Room is a DJ-owned session identified by a short numeric PIN. A closed room
// keeps its row forever; only Active ever changes, and only true -> false.
type Room struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Pin       string    `json:"pin" gorm:"size:4;not null;index"`
	DJID      string    `json:"dj_id" gorm:"column:dj_id;size:64;not null;index"`
	DJName    string    `json:"dj_name" gorm:"column:dj_name;size:128;not null;default:''"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Room) TableName() string { return "rooms" }

// RequesterRole distinguishes the room owner from guests on a request.
type RequesterRole string

const (
	RoleDJ    RequesterRole = "dj"
	RoleGuest RequesterRole = "guest"
)

// SongStatus is the queue state of a song request.
type SongStatus string

const (
	StatusPending SongStatus = "pending"
	StatusPlaying SongStatus = "playing"
	StatusPlayed  SongStatus = "played"
)

// Valid reports whether s is one of the known statuses.
func (s SongStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPlaying, StatusPlayed:
		return true
	}
	return false
}

// SongRequest is one queued video in a room. Votes always equals the number of
// SongVote rows for the song; created_at orders the queue.
type SongRequest struct {
	ID            string        `json:"id" gorm:"type:uuid;primaryKey"`
	RoomID        string        `json:"room_id" gorm:"type:uuid;not null;index"`
	VideoID       string        `json:"video_id" gorm:"size:64;not null"`
	Title         string        `json:"title" gorm:"size:256;not null"`
	Thumbnail     string        `json:"thumbnail" gorm:"size:512;not null;default:''"`
	VideoURL      string        `json:"video_url" gorm:"size:512;not null;default:''"`
	RequestedBy   string        `json:"requested_by" gorm:"size:128;not null;default:''"`
	RequesterRole RequesterRole `json:"requester_role" gorm:"size:8;not null;default:'guest'"`
	Votes         int           `json:"votes" gorm:"not null;default:0"`
	Status        SongStatus    `json:"status" gorm:"size:16;not null;default:'pending'"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`

	Voters []SongVote `json:"-" gorm:"foreignKey:SongID"`
}

func (SongRequest) TableName() string { return "song_requests" }

// VoterIDs returns the voter identity set as a slice.
func (s *SongRequest) VoterIDs() []string {
	ids := make([]string, 0, len(s.Voters))
	for _, v := range s.Voters {
		ids = append(ids, v.VoterID)
	}
	return ids
}

// HasVoter reports whether the given session identity is in the voter set.
func (s *SongRequest) HasVoter(voterID string) bool {
	for _, v := range s.Voters {
		if v.VoterID == voterID {
			return true
		}
	}
	return false
}

// SongVote is one voter identity attached to a song. Voter identities are
// opaque session-scoped strings, not user accounts; the (song, voter) pair is
// unique, which is what makes the vote a toggle.
type SongVote struct {
	SongID    string    `json:"song_id" gorm:"type:uuid;primaryKey"`
	VoterID   string    `json:"voter_id" gorm:"size:64;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (SongVote) TableName() string { return "song_votes" }

// SubmitSongRequest is the request body for POST /rooms/:pin/songs.
type SubmitSongRequest struct {
	VideoID       string        `json:"video_id" binding:"required"`
	Title         string        `json:"title" binding:"required"`
	Thumbnail     string        `json:"thumbnail"`
	VideoURL      string        `json:"video_url"`
	RequestedBy   string        `json:"requested_by"`
	RequesterRole RequesterRole `json:"requester_role"`
}

// VoteRequest is the request body for POST /songs/:id/vote.
type VoteRequest struct {
	VoterID string `json:"voter_id" binding:"required"`
}

// SetStatusRequest is the request body for PATCH /songs/:id/status.
type SetStatusRequest struct {
	Status SongStatus `json:"status" binding:"required"`
}

// CloseRoomResponse confirms DELETE /rooms/:pin.
type CloseRoomResponse struct {
	Pin    string `json:"pin"`
	Closed bool   `json:"closed"`
}
