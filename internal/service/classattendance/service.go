package classattendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/orgpulse/attendance-backend-go/internal/domain/assignment"
	"github.com/orgpulse/attendance-backend-go/internal/domain/attendance"
	"github.com/orgpulse/attendance-backend-go/internal/domain/classattendance"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/clock"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/timepolicy"
)

type ClassAttendanceServiceImpl struct {
	classattendance.ClassAttendanceRepository
	attendanceRepo attendance.AttendanceRepository
	assignmentRepo assignment.AssignmentRepository
	sweeper        attendance.Sweeper
	policy         *timepolicy.Policy
	clock          clock.Clock
	txRunner       database.TxRunner
}

func NewClassAttendanceService(
	classRepo classattendance.ClassAttendanceRepository,
	attendanceRepo attendance.AttendanceRepository,
	assignmentRepo assignment.AssignmentRepository,
	swp attendance.Sweeper,
	policy *timepolicy.Policy,
	clk clock.Clock,
	txRunner database.TxRunner,
) classattendance.ClassAttendanceService {
	if clk == nil {
		clk = clock.System()
	}
	return &ClassAttendanceServiceImpl{
		ClassAttendanceRepository: classRepo,
		attendanceRepo:            attendanceRepo,
		assignmentRepo:            assignmentRepo,
		sweeper:                   swp,
		policy:                    policy,
		clock:                     clk,
		txRunner:                  txRunner,
	}
}

func trainerIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	trainerID, ok := claims["employee_id"].(string)
	if !ok || trainerID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}
	return trainerID, nil
}

// CheckIn implements classattendance.ClassAttendanceService.
//
// Preconditions run in order; the first failure wins: active assignment,
// open work session, no other open class session, no non-reenterable record
// for this (trainer, class, day).
func (s *ClassAttendanceServiceImpl) CheckIn(ctx context.Context, req classattendance.CheckInRequest) (classattendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return classattendance.CheckInResponse{}, err
	}

	trainerID := req.TrainerID
	if trainerID == "" {
		var err error
		trainerID, err = trainerIDFromContext(ctx)
		if err != nil {
			return classattendance.CheckInResponse{}, err
		}
	}

	if err := s.sweeper.SweepEmployee(ctx, trainerID); err != nil {
		slog.Warn("ClassAttendance: inline sweep failed", "trainer_id", trainerID, "error", err)
	}

	now := s.clock.Now()
	today := s.policy.DayOf(now)

	var resp classattendance.CheckInResponse
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		assigned, err := s.assignmentRepo.IsAssigned(ctx, trainerID, req.ClassID)
		if err != nil {
			return fmt.Errorf("failed to check class assignment: %w", err)
		}
		if !assigned {
			return classattendance.ErrNotAssigned
		}

		workDay, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, trainerID, today)
		if err != nil {
			return fmt.Errorf("failed to load work attendance: %w", err)
		}
		if workDay == nil || !workDay.HasOpenSession() {
			return classattendance.ErrWorkNotStarted
		}

		open, err := s.ClassAttendanceRepository.GetOpenByTrainerAndDate(ctx, trainerID, today)
		if err != nil {
			return fmt.Errorf("failed to check open class sessions: %w", err)
		}
		if open != nil && open.ClassID != req.ClassID {
			return &classattendance.AlreadyInClassError{ClassName: open.ClassName}
		}

		existing, err := s.ClassAttendanceRepository.GetByTrainerClassAndDateForUpdate(ctx, trainerID, req.ClassID, today)
		if err != nil {
			return fmt.Errorf("failed to load class attendance: %w", err)
		}

		if existing != nil {
			// Re-check-in is only allowed into a session the sweeper closed;
			// a user-initiated checkout stays final for the day.
			if !existing.AutoCheckout || existing.CheckOutTime == nil {
				return classattendance.ErrAlreadyCheckedIn
			}

			existing.CheckInTime = now
			existing.CheckOutTime = nil
			existing.AutoCheckout = false
			existing.Status = classattendance.StatusCheckedIn

			if err := s.ClassAttendanceRepository.Update(ctx, *existing); err != nil {
				return err
			}

			resp = classattendance.CheckInResponse{
				ClassID:     req.ClassID,
				CheckInTime: now.In(s.policy.Location()).Format(time.RFC3339),
				ReCheckIn:   true,
			}
			return nil
		}

		class, err := s.assignmentRepo.GetClass(ctx, req.ClassID)
		if err != nil {
			return fmt.Errorf("failed to load class: %w", err)
		}

		day := classattendance.ClassAttendanceDay{
			TrainerID:   trainerID,
			ClassID:     req.ClassID,
			Date:        today,
			CheckInTime: now,
			Status:      classattendance.StatusCheckedIn,
		}

		var scheduledOut *string
		if !req.ExplicitCheckoutSupported {
			// The caller cannot issue a later checkout, so the session is
			// pre-closed at the class duration capped by policy.
			duration := time.Duration(class.DurationHours) * time.Hour
			if max := s.policy.MaxClassDuration(); duration > max {
				duration = max
			}
			checkOut := now.Add(duration)
			day.CheckOutTime = &checkOut
			day.AutoCheckout = true
			day.Status = classattendance.StatusCheckedOut

			formatted := checkOut.In(s.policy.Location()).Format(time.RFC3339)
			scheduledOut = &formatted
		}

		if _, err := s.ClassAttendanceRepository.Create(ctx, day); err != nil {
			return err
		}

		resp = classattendance.CheckInResponse{
			ClassID:           req.ClassID,
			CheckInTime:       now.In(s.policy.Location()).Format(time.RFC3339),
			ScheduledCheckOut: scheduledOut,
		}
		return nil
	})
	if err != nil {
		return classattendance.CheckInResponse{}, err
	}

	return resp, nil
}

// CheckOut implements classattendance.ClassAttendanceService.
func (s *ClassAttendanceServiceImpl) CheckOut(ctx context.Context, req classattendance.CheckOutRequest) (classattendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return classattendance.CheckOutResponse{}, err
	}

	trainerID := req.TrainerID
	if trainerID == "" {
		var err error
		trainerID, err = trainerIDFromContext(ctx)
		if err != nil {
			return classattendance.CheckOutResponse{}, err
		}
	}

	if err := s.sweeper.SweepEmployee(ctx, trainerID); err != nil {
		slog.Warn("ClassAttendance: inline sweep failed", "trainer_id", trainerID, "error", err)
	}

	now := s.clock.Now()
	today := s.policy.DayOf(now)

	var resp classattendance.CheckOutResponse
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.ClassAttendanceRepository.GetByTrainerClassAndDateForUpdate(ctx, trainerID, req.ClassID, today)
		if err != nil {
			return fmt.Errorf("failed to load class attendance: %w", err)
		}
		if existing == nil {
			return classattendance.ErrNotCheckedIn
		}
		if existing.CheckOutTime != nil {
			return classattendance.ErrAlreadyCheckedOut
		}

		checkOut := now
		existing.CheckOutTime = &checkOut
		existing.AutoCheckout = false
		existing.Status = classattendance.StatusCheckedOut

		if err := s.ClassAttendanceRepository.Update(ctx, *existing); err != nil {
			return err
		}

		resp = classattendance.CheckOutResponse{
			ClassID:         req.ClassID,
			CheckOutTime:    checkOut.In(s.policy.Location()).Format(time.RFC3339),
			DurationMinutes: int(checkOut.Sub(existing.CheckInTime).Minutes()),
		}
		return nil
	})
	if err != nil {
		return classattendance.CheckOutResponse{}, err
	}

	return resp, nil
}

// GetMyClassAttendance implements classattendance.ClassAttendanceService.
func (s *ClassAttendanceServiceImpl) GetMyClassAttendance(ctx context.Context, filter classattendance.MyClassAttendanceFilter) ([]classattendance.DayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	trainerID, err := trainerIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	from := s.policy.DayOf(now).AddDate(0, -1, 0)
	to := s.policy.DayOf(now)

	if filter.StartDate != nil {
		parsed, _ := time.ParseInLocation("2006-01-02", *filter.StartDate, s.policy.Location())
		from = parsed
	}
	if filter.EndDate != nil {
		parsed, _ := time.ParseInLocation("2006-01-02", *filter.EndDate, s.policy.Location())
		to = parsed
	}

	days, err := s.ClassAttendanceRepository.ListByTrainer(ctx, trainerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list class attendance: %w", err)
	}

	responses := make([]classattendance.DayResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, classattendance.MapDayToResponse(day))
	}
	return responses, nil
}
