// controllers/srv.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_key_loans/app"
	"Gin_postgres_redis_key_loans/apperr"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/services"

	"github.com/gin-gonic/gin"
)

type Srv struct {
	*services.Services
	App *app.App
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Services: services.New(db.NewRepo(a.DB), a.Locker, a.Log),
		App:      a,
	}
}

// --- helpers ---

// respondError writes err as {"error": {...}} with the status of its kind.
// Errors without a kind are logged and reported as a bare 500.
func (s *Srv) respondError(c *gin.Context, err error) {
	if e := apperr.Get(err); e != nil {
		c.JSON(e.Code, app.H{"error": e})
		return
	}
	s.App.Log.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, app.H{"error": apperr.NewInternalError("internal server error")})
}

func (s *Srv) badRequest(c *gin.Context, entity string, err error) {
	s.respondError(c, apperr.NewValidationError(entity, "invalid request body", err.Error()))
}

func idParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.NewFieldError("loan", name, raw, "id must be a positive integer")
	}
	return uint(id), nil
}
