package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/bus"
	"staycal/internal/app/dto"
	usersapp "staycal/internal/app/handlers/users"
)

// UserHandler backs the master dashboard. Role checks happen in the
// application handlers so the bus enforces them for every caller.
type UserHandler struct {
	Commands bus.CommandBus
	Queries  bus.QueryBus
	Logger   *slog.Logger
}

func (h UserHandler) List(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	q := usersapp.ListUsersQuery{Principal: p, Status: c.Query("status")}
	result, err := bus.Ask[usersapp.ListUsersQuery, []dto.UserProfile](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h UserHandler) Moderate(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := usersapp.ModerateUserCommand{Principal: p, UserID: c.Param("id"), Action: usersapp.Action(c.Param("action"))}
	result, err := bus.Dispatch[usersapp.ModerateUserCommand, dto.UserProfile](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ UserHTTP = (*UserHandler)(nil)
