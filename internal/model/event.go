package model

// Server -> client event types on the room websocket.
const (
	EventConnected         = "connected"
	EventUserJoined        = "user_joined"
	EventSongRequested     = "song_requested"
	EventSongVoted         = "song_voted"
	EventSongStatusChanged = "song_status_changed"
	EventRoomClosed        = "room_closed"
)

// Client -> server: only a user-presence announcement is interpreted.
const InboundUserJoined = "user_joined"

// Event is the envelope for every server -> client websocket message:
// {"type": ..., <payload fields>}. Unused payload fields are omitted.
type Event struct {
	Type    string       `json:"type"`
	RoomPin string       `json:"room_pin,omitempty"`
	User    string       `json:"user,omitempty"`
	Song    *SongRequest `json:"song,omitempty"`
	Message string       `json:"message,omitempty"`
}

// InboundMessage is the only client -> server message shape the server reads.
// Anything that fails to parse into it is ignored.
type InboundMessage struct {
	Type string `json:"type"`
	User string `json:"user"`
}

func ConnectedEvent(pin string) Event {
	return Event{Type: EventConnected, RoomPin: pin}
}

func UserJoinedEvent(user string) Event {
	if user == "" {
		user = "Guest"
	}
	return Event{Type: EventUserJoined, User: user}
}

func SongRequestedEvent(song *SongRequest) Event {
	return Event{Type: EventSongRequested, Song: song}
}

func SongVotedEvent(song *SongRequest) Event {
	return Event{Type: EventSongVoted, Song: song}
}

func SongStatusChangedEvent(song *SongRequest) Event {
	return Event{Type: EventSongStatusChanged, Song: song}
}

func RoomClosedEvent() Event {
	return Event{Type: EventRoomClosed, Message: "room closed by DJ"}
}
