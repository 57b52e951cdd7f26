package availability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/outbox"
	domainavailability "staycal/internal/domain/availability"
	domainreservations "staycal/internal/domain/reservations"
	domainuser "staycal/internal/domain/user"
)

const scanConflictsKey = "availability.scan_conflicts"

// ScanConflictsCommand is issued by the scheduler, not by users.
type ScanConflictsCommand struct{}

func (ScanConflictsCommand) Key() string { return scanConflictsKey }

type ScanReport struct {
	Tenants   int `json:"tenants"`
	Conflicts int `json:"conflicts"`
	Reported  int `json:"reported"`
}

// ScanConflictsHandler walks every approved tenant and raises one
// ConflictDetected event per overlapping pair. Pairs already reported by this
// process are counted but not raised again.
type ScanConflictsHandler struct {
	Users   domainuser.Repository
	Sources datasource.Resolver
	Outbox  outbox.Outbox
	Logger  *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func (h *ScanConflictsHandler) Handle(ctx context.Context, _ ScanConflictsCommand) (ScanReport, error) {
	users, err := h.Users.ByStatus(ctx, domainuser.StatusApproved)
	if err != nil {
		return ScanReport{}, err
	}
	var report ScanReport
	now := time.Now()
	for _, u := range users {
		if u.IsMaster() {
			continue
		}
		ds, err := h.Sources.For(u.Role)
		if err != nil {
			return report, err
		}
		list, err := ds.Reservations(ctx, string(u.ID))
		if err != nil {
			return report, err
		}
		report.Tenants++
		for _, c := range domainreservations.Conflicts(list) {
			report.Conflicts++
			if !h.markNew(c) {
				continue
			}
			if err := outbox.Record(ctx, h.Outbox, domainavailability.ConflictDetectedEvent(c, now)); err != nil {
				return report, err
			}
			report.Reported++
			if h.Logger != nil {
				h.Logger.Warn("reservation conflict detected", "owner_id", u.ID, "property_id", c.PropertyID, "first", c.First.ID, "second", c.Second.ID, "shared", c.Shared.String())
			}
		}
	}
	if h.Logger != nil {
		h.Logger.Info("conflict scan finished", "tenants", report.Tenants, "conflicts", report.Conflicts, "reported", report.Reported)
	}
	return report, nil
}

func (h *ScanConflictsHandler) markNew(c domainreservations.Conflict) bool {
	key := string(c.First.ID) + "|" + string(c.Second.ID) + "|" + c.Shared.String()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seen == nil {
		h.seen = make(map[string]struct{})
	}
	if _, ok := h.seen[key]; ok {
		return false
	}
	h.seen[key] = struct{}{}
	return true
}

var _ bus.Handler[ScanConflictsCommand, ScanReport] = (*ScanConflictsHandler)(nil)
