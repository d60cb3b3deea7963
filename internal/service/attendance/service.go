package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/orgpulse/attendance-backend-go/internal/domain/attendance"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/clock"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/geofence"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/timepolicy"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	sweeper  attendance.Sweeper
	policy   *timepolicy.Policy
	checker  *geofence.Checker
	clock    clock.Clock
	txRunner database.TxRunner
}

// NewAttendanceService wires the work session engine. checker may be nil when
// the deployment has no geofence configured.
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	swp attendance.Sweeper,
	policy *timepolicy.Policy,
	checker *geofence.Checker,
	clk clock.Clock,
	txRunner database.TxRunner,
) attendance.AttendanceService {
	if clk == nil {
		clk = clock.System()
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		sweeper:              swp,
		policy:               policy,
		checker:              checker,
		clock:                clk,
		txRunner:             txRunner,
	}
}

func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}
	return employeeID, nil
}

func (a *AttendanceServiceImpl) validateLocation(loc *attendance.Location) error {
	if a.checker == nil {
		return nil
	}
	if loc == nil {
		return attendance.ValidationLocationRequired()
	}
	inside, distance, err := a.checker.Check(loc.Latitude, loc.Longitude)
	if err != nil {
		return err
	}
	if !inside {
		return &attendance.OutsideGeofenceError{
			DistanceMeters: distance,
			RadiusMeters:   a.checker.RadiusMeters(),
		}
	}
	return nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		var err error
		employeeID, err = employeeIDFromContext(ctx)
		if err != nil {
			return attendance.CheckInResponse{}, err
		}
	}

	// Close any session that crossed its boundary before validating the new
	// transition. A sweep failure must not block the check-in itself.
	if err := a.sweeper.SweepEmployee(ctx, employeeID); err != nil {
		slog.Warn("Attendance: inline sweep failed", "employee_id", employeeID, "error", err)
	}

	if err := a.validateLocation(req.Location); err != nil {
		return attendance.CheckInResponse{}, err
	}

	now := a.clock.Now()
	today := a.policy.DayOf(now)

	var day attendance.WorkAttendanceDay
	err := a.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, employeeID, today)
		if err != nil {
			return fmt.Errorf("failed to load today's attendance: %w", err)
		}

		// An open session outranks the time window: a duplicate check-in is
		// reported as such even when the window has also closed.
		if existing != nil && existing.HasOpenSession() {
			return attendance.ErrAlreadyOpen
		}

		decision := a.policy.ValidateCheckIn(now)
		if !decision.Allowed {
			return fmt.Errorf("%w: %s", attendance.ErrOutsideWindow, decision.Reason)
		}

		session := attendance.Session{CheckIn: now}

		if existing == nil {
			status := attendance.StatusPresent
			if decision.IsLate {
				status = attendance.StatusLate
			}
			created, err := a.AttendanceRepository.Create(ctx, attendance.WorkAttendanceDay{
				EmployeeID: employeeID,
				Date:       today,
				Sessions:   []attendance.Session{session},
				Status:     status,
			})
			if err != nil {
				return err
			}
			day = created
			return nil
		}

		// Status was derived at the first check-in and is never downgraded
		// by later sessions.
		existing.Sessions = append(existing.Sessions, session)
		if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
			return err
		}
		day = *existing
		return nil
	})
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	return attendance.CheckInResponse{
		CheckInTime: now.In(a.policy.Location()).Format(time.RFC3339),
		Status:      string(day.Status),
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		var err error
		employeeID, err = employeeIDFromContext(ctx)
		if err != nil {
			return attendance.CheckOutResponse{}, err
		}
	}

	if err := a.sweeper.SweepEmployee(ctx, employeeID); err != nil {
		slog.Warn("Attendance: inline sweep failed", "employee_id", employeeID, "error", err)
	}

	now := a.clock.Now()
	today := a.policy.DayOf(now)
	decision := a.policy.ValidateCheckOut(now)

	var resp attendance.CheckOutResponse
	err := a.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		day, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, employeeID, today)
		if err != nil {
			return fmt.Errorf("failed to load today's attendance: %w", err)
		}
		if day == nil {
			return attendance.ErrNoOpenSession
		}

		idx := day.OpenSessionIndex()

		if idx < 0 {
			// Past the boundary the sweep has already force-closed the
			// session; report that instead of erroring the user.
			last := len(day.Sessions) - 1
			if decision.ForcedAutoCheckout && last >= 0 && day.Sessions[last].AutoClosed {
				resp = attendance.CheckOutResponse{
					CheckOutTime: day.Sessions[last].CheckOut.In(a.policy.Location()).Format(time.RFC3339),
					SessionCount: len(day.Sessions),
					AutoCheckout: true,
				}
				return nil
			}
			return attendance.ErrNoOpenSession
		}

		checkOut := now
		autoCheckout := false
		if !decision.Allowed {
			// Sweeper forced-close path: close at the boundary, not at now.
			checkOut = a.policy.AutoCheckoutBoundary(now)
			autoCheckout = true
		}

		day.Sessions[idx].CheckOut = &checkOut
		day.Sessions[idx].AutoClosed = autoCheckout

		if err := a.AttendanceRepository.Update(ctx, *day); err != nil {
			return err
		}

		resp = attendance.CheckOutResponse{
			CheckOutTime: checkOut.In(a.policy.Location()).Format(time.RFC3339),
			SessionCount: len(day.Sessions),
			AutoCheckout: autoCheckout,
		}
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) ([]attendance.DayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	from := a.policy.DayOf(now).AddDate(0, -1, 0)
	to := a.policy.DayOf(now)

	if filter.StartDate != nil {
		parsed, _ := time.ParseInLocation("2006-01-02", *filter.StartDate, a.policy.Location())
		from = parsed
	}
	if filter.EndDate != nil {
		parsed, _ := time.ParseInLocation("2006-01-02", *filter.EndDate, a.policy.Location())
		to = parsed
	}

	days, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.DayResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, attendance.MapDayToResponse(day))
	}
	return responses, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.ListFilter) ([]attendance.DayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	date := a.policy.DayOf(a.clock.Now())
	if filter.Date != nil {
		parsed, _ := time.ParseInLocation("2006-01-02", *filter.Date, a.policy.Location())
		date = parsed
	}

	days, err := a.AttendanceRepository.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.DayResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, attendance.MapDayToResponse(day))
	}
	return responses, nil
}
