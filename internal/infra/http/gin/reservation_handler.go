package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/bus"
	"staycal/internal/app/dto"
	reservationsapp "staycal/internal/app/handlers/reservations"
)

type ReservationHandler struct {
	Commands bus.CommandBus
	Queries  bus.QueryBus
	Logger   *slog.Logger
}

type reservationRequest struct {
	PropertyID  string `json:"property_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	EndDate     string `json:"end_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	SubUserID   string `json:"sub_user_id"`
	Status      string `json:"status"`
}

func (r reservationRequest) payload() reservationsapp.ReservationPayload {
	return reservationsapp.ReservationPayload{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		EndDate:     r.EndDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		SubUserID:   r.SubUserID,
		Status:      r.Status,
	}
}

func (h ReservationHandler) List(c *gin.Context) {
	h.list(c, c.Query("property_id"))
}

func (h ReservationHandler) ListForProperty(c *gin.Context) {
	h.list(c, c.Param("id"))
}

func (h ReservationHandler) list(c *gin.Context, propertyID string) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	q := reservationsapp.ListReservationsQuery{
		Principal:  p,
		PropertyID: strings.TrimSpace(propertyID),
		Date:       c.Query("date"),
		Start:      c.Query("start"),
		End:        c.Query("end"),
	}
	result, err := bus.Ask[reservationsapp.ListReservationsQuery, []dto.Reservation](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := reservationsapp.CreateReservationCommand{
		Principal:  p,
		PropertyID: req.PropertyID,
		Payload:    req.payload(),
		RequestKey: strings.TrimSpace(c.GetHeader(idempotencyKeyHead)),
	}
	result, err := bus.Dispatch[reservationsapp.CreateReservationCommand, dto.Reservation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReservationHandler) Update(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := reservationsapp.UpdateReservationCommand{Principal: p, ReservationID: c.Param("id"), Payload: req.payload()}
	result, err := bus.Dispatch[reservationsapp.UpdateReservationCommand, dto.Reservation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) Delete(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := reservationsapp.DeleteReservationCommand{Principal: p, ReservationID: c.Param("id")}
	result, err := bus.Dispatch[reservationsapp.DeleteReservationCommand, dto.Reservation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) Conflicts(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	result, err := bus.Ask[reservationsapp.ConflictsQuery, []dto.Conflict](c.Request.Context(), h.Queries, reservationsapp.ConflictsQuery{Principal: p})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReservationHTTP = (*ReservationHandler)(nil)
