package controllers

import (
	"net/http"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/services"

	"github.com/gin-gonic/gin"
)

type RoomController struct{ *Srv }

func NewRoomController(s *Srv) *RoomController { return &RoomController{Srv: s} }

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var in services.RoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		rc.badRequest(c, "room", err)
		return
	}
	v, err := rc.Rooms.CreateRoom(c.Request.Context(), in)
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// GET /api/rooms
func (rc *RoomController) ListRooms(c *gin.Context) {
	rooms, err := rc.Rooms.ListRooms(c.Request.Context())
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rooms})
}

// GET /api/rooms/:name
func (rc *RoomController) GetRoom(c *gin.Context) {
	v, err := rc.Rooms.GetRoom(c.Request.Context(), c.Param("name"))
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// PUT /api/rooms/:name, only the fields present are changed
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	var patch services.RoomPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		rc.badRequest(c, "room", err)
		return
	}
	v, err := rc.Rooms.UpdateRoom(c.Request.Context(), c.Param("name"), patch)
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GET /api/rooms/:name/status
func (rc *RoomController) RoomStatus(c *gin.Context) {
	name := c.Param("name")
	st, err := rc.Rooms.RoomStatus(c.Request.Context(), name)
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"nom": name, "status": st})
}
