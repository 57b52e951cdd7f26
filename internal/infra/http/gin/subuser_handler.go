package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/bus"
	"staycal/internal/app/dto"
	subusersapp "staycal/internal/app/handlers/subusers"
)

type SubUserHandler struct {
	Commands bus.CommandBus
	Queries  bus.QueryBus
	Logger   *slog.Logger
}

type subUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h SubUserHandler) List(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	result, err := bus.Ask[subusersapp.ListSubUsersQuery, []dto.SubUser](c.Request.Context(), h.Queries, subusersapp.ListSubUsersQuery{Principal: p})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h SubUserHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req subUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := subusersapp.CreateSubUserCommand{Principal: p, Name: req.Name, Email: req.Email}
	result, err := bus.Dispatch[subusersapp.CreateSubUserCommand, dto.SubUser](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h SubUserHandler) Delete(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := subusersapp.DeleteSubUserCommand{Principal: p, SubUserID: c.Param("id")}
	if _, err := bus.Dispatch[subusersapp.DeleteSubUserCommand, dto.SubUser](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ SubUserHTTP = (*SubUserHandler)(nil)
