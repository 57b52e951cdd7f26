package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/datasource"
	propertiesapp "staycal/internal/app/handlers/properties"
	"staycal/internal/app/handlers/support"
	usersapp "staycal/internal/app/handlers/users"
	"staycal/internal/app/middleware"
	authsvc "staycal/internal/app/services/auth"
	domainproperties "staycal/internal/domain/properties"
	domainreservations "staycal/internal/domain/reservations"
	"staycal/internal/domain/selection"
	"staycal/internal/domain/shared/daterange"
	domainsubusers "staycal/internal/domain/subusers"
	domainuser "staycal/internal/domain/user"
)

var errorStatuses = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		middleware.ErrValidation,
		daterange.ErrInvalidDate,
		daterange.ErrInvalidRange,
		selection.ErrInvalidState,
		domainproperties.ErrNameRequired,
		domainproperties.ErrPriceParse,
		domainreservations.ErrTitleRequired,
		domainreservations.ErrDateRequired,
		domainreservations.ErrEndBeforeStart,
		domainreservations.ErrInvalidTime,
		domainreservations.ErrInvalidStatus,
		domainsubusers.ErrNameRequired,
		domainsubusers.ErrInvalidEmail,
		domainuser.ErrInvalidStatus,
		usersapp.ErrUnknownAction,
		propertiesapp.ErrUnsupportedImageType,
		authsvc.ErrPasswordTooShort,
		domainuser.ErrEmailRequired,
		domainuser.ErrNameRequired,
	}},
	{http.StatusUnauthorized, []error{
		support.ErrPrincipalRequired,
		authsvc.ErrInvalidCredentials,
	}},
	{http.StatusForbidden, []error{
		authsvc.ErrPendingApproval,
		authsvc.ErrAccountRejected,
		authsvc.ErrAccountInactive,
		support.ErrForbidden,
		domainproperties.ErrNotOwned,
		domainreservations.ErrNotOwned,
		domainsubusers.ErrNotOwned,
		domainuser.ErrMasterImmutable,
	}},
	{http.StatusNotFound, []error{
		datasource.ErrNotFound,
		domainuser.ErrNotFound,
	}},
	{http.StatusConflict, []error{
		domainreservations.ErrOverlapping,
		domainproperties.ErrLocked,
		domainuser.ErrEmailAlreadyUsed,
		middleware.ErrReplayedFailure,
	}},
	{http.StatusServiceUnavailable, []error{
		datasource.ErrNoDataSource,
		propertiesapp.ErrImageStoreUnavailable,
	}},
}

func statusFor(err error) int {
	for _, group := range errorStatuses {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondError maps err to a status. Only server errors reach the log at
// error level; the rest are the caller's fault.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		if logger != nil {
			fields := []any{"status", status, "error", err, "path", c.FullPath()}
			if p, ok := currentPrincipal(c); ok {
				fields = append(fields, "user_id", p.User.ID)
			}
			logger.Error("request failed", fields...)
		}
		if status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "internal error"})
			return
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
