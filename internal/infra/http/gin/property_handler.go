package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/bus"
	"staycal/internal/app/dto"
	propertiesapp "staycal/internal/app/handlers/properties"
)

const (
	maxImageSizeBytes  int64 = 10 * 1024 * 1024
	idempotencyKeyHead       = "Idempotency-Key"
)

type PropertyHandler struct {
	Commands bus.CommandBus
	Queries  bus.QueryBus
	Logger   *slog.Logger
}

type propertyRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	DefaultPrice *float64 `json:"default_price"`
	Currency     string   `json:"currency"`
}

func (r propertyRequest) payload() propertiesapp.PropertyPayload {
	return propertiesapp.PropertyPayload{
		Name:         r.Name,
		Description:  r.Description,
		Address:      r.Address,
		DefaultPrice: r.DefaultPrice,
		Currency:     r.Currency,
	}
}

// priceRequest accepts the price as a JSON number or as text typed into a
// form field; both go through the same positive-number parse.
type priceRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Price any    `json:"price"`
}

func (r priceRequest) priceText() string {
	switch v := r.Price.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

type flagRequest struct {
	Locked   *bool `json:"locked"`
	Archived *bool `json:"archived"`
}

func (h PropertyHandler) List(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	includeArchived, _ := strconv.ParseBool(c.Query("include_archived"))
	q := propertiesapp.ListPropertiesQuery{Principal: p, IncludeArchived: includeArchived}
	result, err := bus.Ask[propertiesapp.ListPropertiesQuery, []dto.Property](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Create(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := propertiesapp.CreatePropertyCommand{
		Principal:  p,
		Payload:    req.payload(),
		RequestKey: strings.TrimSpace(c.GetHeader(idempotencyKeyHead)),
	}
	result, err := bus.Dispatch[propertiesapp.CreatePropertyCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/properties/%s", result.ID))
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) Get(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	q := propertiesapp.GetPropertyQuery{Principal: p, PropertyID: c.Param("id")}
	result, err := bus.Ask[propertiesapp.GetPropertyQuery, dto.Property](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Update(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := propertiesapp.UpdatePropertyCommand{Principal: p, PropertyID: c.Param("id"), Payload: req.payload()}
	result, err := bus.Dispatch[propertiesapp.UpdatePropertyCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Delete(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := propertiesapp.DeletePropertyCommand{Principal: p, PropertyID: c.Param("id")}
	result, err := bus.Dispatch[propertiesapp.DeletePropertyCommand, dto.PropertyDeleted](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) SetPrices(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := propertiesapp.SetPricesCommand{
		Principal:  p,
		PropertyID: c.Param("id"),
		Start:      req.Start,
		End:        req.End,
		Price:      req.priceText(),
	}
	result, err := bus.Dispatch[propertiesapp.SetPricesCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) ClearPrices(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	cmd := propertiesapp.ClearPricesCommand{
		Principal:  p,
		PropertyID: c.Param("id"),
		Start:      c.Query("start"),
		End:        c.Query("end"),
	}
	result, err := bus.Dispatch[propertiesapp.ClearPricesCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) SetLock(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Locked == nil {
		badRequest(c, errors.New("locked is required"))
		return
	}
	cmd := propertiesapp.SetLockCommand{Principal: p, PropertyID: c.Param("id"), Locked: *req.Locked}
	result, err := bus.Dispatch[propertiesapp.SetLockCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) SetArchived(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Archived == nil {
		badRequest(c, errors.New("archived is required"))
		return
	}
	cmd := propertiesapp.SetArchivedCommand{Principal: p, PropertyID: c.Param("id"), Archived: *req.Archived}
	result, err := bus.Dispatch[propertiesapp.SetArchivedCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadImage takes the raw image as the request body.
func (h PropertyHandler) UploadImage(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	size := c.Request.ContentLength
	if size <= 0 {
		badRequest(c, errors.New("content length is required"))
		return
	}
	if size > maxImageSizeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
		return
	}
	contentType := strings.TrimSpace(strings.Split(c.ContentType(), ";")[0])
	cmd := propertiesapp.SetImageCommand{
		Principal:   p,
		PropertyID:  c.Param("id"),
		ContentType: contentType,
		Size:        size,
		Body:        http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSizeBytes),
	}
	result, err := bus.Dispatch[propertiesapp.SetImageCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) ExportCalendar(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	q := propertiesapp.ExportCalendarQuery{Principal: p, PropertyID: c.Param("id")}
	file, err := bus.Ask[propertiesapp.ExportCalendarQuery, propertiesapp.CalendarFile](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

var _ PropertyHTTP = (*PropertyHandler)(nil)
