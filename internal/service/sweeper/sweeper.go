package sweeper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orgpulse/attendance-backend-go/internal/domain/attendance"
	"github.com/orgpulse/attendance-backend-go/internal/domain/classattendance"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/clock"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/timepolicy"
)

// Sweeper closes work sessions that crossed the auto-checkout boundary and
// class sessions that exceeded the class duration cap. Both the engine
// (inline, before every mutating action) and the cron scheduler invoke it.
// Sweeps are idempotent: a record with no qualifying open session is a no-op.
type Sweeper struct {
	attendanceRepo attendance.AttendanceRepository
	classRepo      classattendance.ClassAttendanceRepository
	policy         *timepolicy.Policy
	clock          clock.Clock
}

func NewSweeper(
	attendanceRepo attendance.AttendanceRepository,
	classRepo classattendance.ClassAttendanceRepository,
	policy *timepolicy.Policy,
	clk clock.Clock,
) *Sweeper {
	if clk == nil {
		clk = clock.System()
	}
	return &Sweeper{
		attendanceRepo: attendanceRepo,
		classRepo:      classRepo,
		policy:         policy,
		clock:          clk,
	}
}

// SweepEmployee closes the employee's stale sessions for today. Invoked
// inline before check-in/check-out actions touching the same employee.
func (s *Sweeper) SweepEmployee(ctx context.Context, employeeID string) error {
	now := s.clock.Now()
	today := s.policy.DayOf(now)

	day, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return fmt.Errorf("sweep work sessions: %w", err)
	}
	if day != nil {
		if _, err := s.closeStaleWorkDay(ctx, day); err != nil {
			return fmt.Errorf("sweep work sessions: %w", err)
		}
	}

	open, err := s.classRepo.GetOpenByTrainerAndDate(ctx, employeeID, today)
	if err != nil {
		return fmt.Errorf("sweep class sessions: %w", err)
	}
	if open != nil {
		if _, err := s.closeStaleClassDay(ctx, open); err != nil {
			return fmt.Errorf("sweep class sessions: %w", err)
		}
	}

	return nil
}

// SweepAll runs both sweep rules over every open session in the store.
// Per-record failures are logged and skipped so one employee's bad record
// cannot block another's sweep.
func (s *Sweeper) SweepAll(ctx context.Context) error {
	workClosed := 0
	workDays, err := s.attendanceRepo.ListWithOpenSessions(ctx)
	if err != nil {
		return fmt.Errorf("list open work sessions: %w", err)
	}
	for i := range workDays {
		closed, err := s.closeStaleWorkDay(ctx, &workDays[i])
		if err != nil {
			slog.Error("Sweep: failed to close work session",
				"employee_id", workDays[i].EmployeeID,
				"date", workDays[i].Date.Format("2006-01-02"),
				"error", err)
			continue
		}
		if closed {
			workClosed++
		}
	}

	classClosed := 0
	classDays, err := s.classRepo.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list open class sessions: %w", err)
	}
	for i := range classDays {
		closed, err := s.closeStaleClassDay(ctx, &classDays[i])
		if err != nil {
			slog.Error("Sweep: failed to close class session",
				"trainer_id", classDays[i].TrainerID,
				"class_id", classDays[i].ClassID,
				"error", err)
			continue
		}
		if closed {
			classClosed++
		}
	}

	if workClosed > 0 || classClosed > 0 {
		slog.Info("Sweep: closed stale sessions",
			"work_sessions", workClosed,
			"class_sessions", classClosed)
	}
	return nil
}

// closeStaleWorkDay applies the work sweep rule: an open session on a day
// whose auto-checkout boundary has passed is closed at the boundary, not at
// now, and the entry is marked system-closed.
func (s *Sweeper) closeStaleWorkDay(ctx context.Context, day *attendance.WorkAttendanceDay) (bool, error) {
	idx := day.OpenSessionIndex()
	if idx < 0 {
		return false, nil
	}

	boundary := s.policy.AutoCheckoutBoundary(day.Date)
	if s.clock.Now().Before(boundary) {
		return false, nil
	}

	checkOut := boundary
	day.Sessions[idx].CheckOut = &checkOut
	day.Sessions[idx].AutoClosed = true

	if err := s.attendanceRepo.Update(ctx, *day); err != nil {
		return false, err
	}
	return true, nil
}

// closeStaleClassDay applies the class sweep rule: a session open longer than
// the class duration cap is closed at check-in + cap.
func (s *Sweeper) closeStaleClassDay(ctx context.Context, day *classattendance.ClassAttendanceDay) (bool, error) {
	if !day.IsOpen() {
		return false, nil
	}

	maxDuration := s.policy.MaxClassDuration()
	if s.clock.Now().Sub(day.CheckInTime) < maxDuration {
		return false, nil
	}

	checkOut := day.CheckInTime.Add(maxDuration)
	day.CheckOutTime = &checkOut
	day.AutoCheckout = true
	day.Status = classattendance.StatusCheckedOut

	if err := s.classRepo.Update(ctx, *day); err != nil {
		return false, err
	}
	return true, nil
}
