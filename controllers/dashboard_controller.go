package controllers

import (
	"net/http"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/models"

	"github.com/gin-gonic/gin"
)

type DashboardController struct{ *Srv }

func NewDashboardController(s *Srv) *DashboardController { return &DashboardController{Srv: s} }

type roomAvailability struct {
	Nom    string            `json:"nom"`
	Status models.RoomStatus `json:"status"`
}

// GET /api/dashboard: totals plus the status of every room
func (dc *DashboardController) Show(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := dc.Dashboard.Stats(ctx)
	if err != nil {
		dc.respondError(c, err)
		return
	}
	rooms, err := dc.Rooms.ListRooms(ctx)
	if err != nil {
		dc.respondError(c, err)
		return
	}
	avail := make([]roomAvailability, 0, len(rooms))
	for _, r := range rooms {
		avail = append(avail, roomAvailability{Nom: r.Nom, Status: r.Status})
	}
	c.JSON(http.StatusOK, app.H{"stats": stats, "rooms": avail})
}
