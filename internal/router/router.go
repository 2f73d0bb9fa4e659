package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yekna/dj-jukebox/internal/handler"
	"github.com/Yekna/dj-jukebox/pkg/constants"
)

// New builds the HTTP router. searchHandler may be nil when the search
// collaborator is not configured; the endpoint is then not mounted.
func New(
	roomHandler *handler.RoomHandler,
	roomWS *handler.RoomWSHandler,
	searchHandler *handler.SearchHandler,
	health *handler.HealthHandler,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(constants.PathHealth, health.Health)
	r.GET(constants.PathReady, health.Ready)

	// REST rooms
	rooms := r.Group("/rooms")
	{
		rooms.POST("", roomHandler.CreateRoom)
		rooms.GET("/:pin", roomHandler.GetRoom)
		rooms.DELETE("/:pin", roomHandler.CloseRoom)
		rooms.GET("/:pin/songs", roomHandler.ListSongs)
		rooms.POST("/:pin/songs", roomHandler.RequestSong)
	}

	// REST songs
	songs := r.Group("/songs")
	{
		songs.POST("/:id/vote", roomHandler.Vote)
		songs.PATCH("/:id/status", roomHandler.SetStatus)
	}

	if searchHandler != nil {
		r.GET("/search", searchHandler.Search)
	}

	// WebSocket: /ws/rooms/:pin
	r.GET("/ws/rooms/:pin", roomWS.ServeWS)

	return r
}
