package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/bus"
	"staycal/internal/app/dto"
	availabilityapp "staycal/internal/app/handlers/availability"
)

type AvailabilityHandler struct {
	Queries bus.QueryBus
	Logger  *slog.Logger
}

type pressRequest struct {
	State   string `json:"state"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Date    string `json:"date"`
	Pressed string `json:"pressed"`
	Clear   bool   `json:"clear"`
}

// Search answers 200 even for an inverted range; the body carries the
// invalid_range outcome.
func (h AvailabilityHandler) Search(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	q := availabilityapp.SearchQuery{Principal: p, Start: c.Query("start"), End: c.Query("end")}
	result, err := bus.Ask[availabilityapp.SearchQuery, dto.AvailabilityResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Month renders the calendar page. The current selection travels in the
// query string so the marks reflect it.
func (h AvailabilityHandler) Month(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	q := availabilityapp.MonthViewQuery{
		Principal:  p,
		PropertyID: c.Param("id"),
		Month:      c.Query("month"),
		Selection: availabilityapp.SelectionInput{
			State: c.Query("state"),
			Start: c.Query("start"),
			End:   c.Query("end"),
			Date:  c.Query("date"),
		},
	}
	result, err := bus.Ask[availabilityapp.MonthViewQuery, dto.MonthView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Press(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req pressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	q := availabilityapp.PressDayQuery{
		Principal:  p,
		PropertyID: c.Param("id"),
		Current: availabilityapp.SelectionInput{
			State: req.State,
			Start: req.Start,
			End:   req.End,
			Date:  req.Date,
		},
		Pressed: req.Pressed,
		Clear:   req.Clear,
	}
	result, err := bus.Ask[availabilityapp.PressDayQuery, dto.Selection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = (*AvailabilityHandler)(nil)
