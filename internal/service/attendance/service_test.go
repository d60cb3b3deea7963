package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/orgpulse/attendance-backend-go/internal/config"
	"github.com/orgpulse/attendance-backend-go/internal/domain/attendance"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/geofence"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/timepolicy"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }

type fakeSweeper struct {
	calls int
	err   error
}

func (f *fakeSweeper) SweepEmployee(context.Context, string) error {
	f.calls++
	return f.err
}

type inlineTxRunner struct{}

func (inlineTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	days map[string]*attendance.WorkAttendanceDay
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{days: make(map[string]*attendance.WorkAttendanceDay)}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeRepo) put(day attendance.WorkAttendanceDay) {
	d := day
	f.days[dayKey(day.EmployeeID, day.Date)] = &d
}

func (f *fakeRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.WorkAttendanceDay, error) {
	day, ok := f.days[dayKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	copied := *day
	copied.Sessions = append([]attendance.Session(nil), day.Sessions...)
	return &copied, nil
}

func (f *fakeRepo) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.WorkAttendanceDay, error) {
	return f.GetByEmployeeAndDate(ctx, employeeID, date)
}

func (f *fakeRepo) Create(_ context.Context, day attendance.WorkAttendanceDay) (attendance.WorkAttendanceDay, error) {
	key := dayKey(day.EmployeeID, day.Date)
	if _, exists := f.days[key]; exists {
		return attendance.WorkAttendanceDay{}, attendance.ErrAlreadyOpen
	}
	day.ID = key
	f.put(day)
	return day, nil
}

func (f *fakeRepo) Update(_ context.Context, day attendance.WorkAttendanceDay) error {
	key := dayKey(day.EmployeeID, day.Date)
	if _, exists := f.days[key]; !exists {
		return attendance.ErrRecordNotFound
	}
	f.put(day)
	return nil
}

func (f *fakeRepo) ListWithOpenSessions(_ context.Context) ([]attendance.WorkAttendanceDay, error) {
	var out []attendance.WorkAttendanceDay
	for _, day := range f.days {
		if day.HasOpenSession() {
			out = append(out, *day)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.WorkAttendanceDay, error) {
	var out []attendance.WorkAttendanceDay
	for _, day := range f.days {
		if day.EmployeeID == employeeID && !day.Date.Before(from) && !day.Date.After(to) {
			out = append(out, *day)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByDate(_ context.Context, date time.Time) ([]attendance.WorkAttendanceDay, error) {
	var out []attendance.WorkAttendanceDay
	for _, day := range f.days {
		if day.Date.Equal(date) {
			out = append(out, *day)
		}
	}
	return out, nil
}

func newTestPolicy(t *testing.T) *timepolicy.Policy {
	t.Helper()
	p, err := timepolicy.New(config.AttendanceConfig{
		Timezone:            "Africa/Nairobi",
		EarliestCheckInHour: 7,
		LateThresholdHour:   9,
		LatestCheckInHour:   17,
		AutoCheckoutHour:    17,
		MaxClassDuration:    2 * time.Hour,
	})
	require.NoError(t, err)
	return p
}

func at(p *timepolicy.Policy, hour, min int) time.Time {
	return time.Date(2026, time.March, 10, hour, min, 0, 0, p.Location())
}

func newService(repo *fakeRepo, swp *fakeSweeper, policy *timepolicy.Policy, checker *geofence.Checker, clk *stubClock) attendance.AttendanceService {
	return NewAttendanceService(repo, swp, policy, checker, clk, inlineTxRunner{})
}

func TestCheckIn_OnTimeIsPresent(t *testing.T) {
	policy := newTestPolicy(t)
	clk := &stubClock{now: at(policy, 8, 30)}
	repo := newFakeRepo()
	swp := &fakeSweeper{}

	svc := newService(repo, swp, policy, nil, clk)
	resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
	assert.Equal(t, 1, swp.calls, "inline sweep must run before the transition")

	day, _ := repo.GetByEmployeeAndDate(context.Background(), "emp-1", policy.DayOf(clk.now))
	require.NotNil(t, day)
	require.Len(t, day.Sessions, 1)
	assert.True(t, day.HasOpenSession())
}

func TestCheckIn_SecondWhileOpenFails(t *testing.T) {
	policy := newTestPolicy(t)
	clk := &stubClock{now: at(policy, 8, 30)}
	repo := newFakeRepo()

	svc := newService(repo, &fakeSweeper{}, policy, nil, clk)
	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyOpen)
}

func TestCheckIn_AfterThresholdIsLate(t *testing.T) {
	policy := newTestPolicy(t)
	clk := &stubClock{now: at(policy, 9, 15)}
	repo := newFakeRepo()

	svc := newService(repo, &fakeSweeper{}, policy, nil, clk)
	resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), resp.Status)
}

func TestCheckIn_OutsideWindow(t *testing.T) {
	policy := newTestPolicy(t)
	repo := newFakeRepo()

	for _, tc := range []struct {
		name string
		now  time.Time
	}{
		{"before opening", at(policy, 6, 30)},
		{"at closing", at(policy, 17, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: tc.now})
			_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
			assert.ErrorIs(t, err, attendance.ErrOutsideWindow)
		})
	}
}

func TestCheckIn_OpenSessionOutranksClosedWindow(t *testing.T) {
	policy := newTestPolicy(t)
	clk := &stubClock{now: at(policy, 17, 30)}
	repo := newFakeRepo()
	repo.put(attendance.WorkAttendanceDay{
		EmployeeID: "emp-1",
		Date:       policy.DayOf(clk.now),
		Sessions:   []attendance.Session{{CheckIn: at(policy, 8, 30)}},
		Status:     attendance.StatusPresent,
	})

	// The sweep that would normally close the stale session fails, so the
	// session is still open when the duplicate check-in arrives.
	svc := newService(repo, &fakeSweeper{err: context.DeadlineExceeded}, policy, nil, clk)
	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyOpen)
}

func TestCheckIn_SecondSessionKeepsFirstStatus(t *testing.T) {
	policy := newTestPolicy(t)
	repo := newFakeRepo()

	// Late first check-in fixes the day's status.
	svc := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 9, 15)})
	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	svcLater := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 12, 0)})
	_, err = svcLater.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	svcAfternoon := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 13, 0)})
	resp, err := svcAfternoon.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusLate), resp.Status, "status is set at the first check-in only")

	day, _ := repo.GetByEmployeeAndDate(context.Background(), "emp-1", policy.DayOf(at(policy, 13, 0)))
	assert.Len(t, day.Sessions, 2)
}

func TestCheckIn_GeofenceRejectsDistantLocation(t *testing.T) {
	policy := newTestPolicy(t)
	clk := &stubClock{now: at(policy, 8, 30)}
	repo := newFakeRepo()
	checker := geofence.NewChecker(-1.286389, 36.817223, 50)

	svc := newService(repo, &fakeSweeper{}, policy, checker, clk)
	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{
		EmployeeID: "emp-1",
		Location:   &attendance.Location{Latitude: -1.286389 + 0.0449, Longitude: 36.817223},
	})

	var geoErr *attendance.OutsideGeofenceError
	require.ErrorAs(t, err, &geoErr)
	assert.InDelta(t, 5000, geoErr.DistanceMeters, 60)
	assert.Equal(t, 50.0, geoErr.RadiusMeters)
}

func TestCheckIn_GeofenceRequiresLocation(t *testing.T) {
	policy := newTestPolicy(t)
	clk := &stubClock{now: at(policy, 8, 30)}
	checker := geofence.NewChecker(-1.286389, 36.817223, 50)

	svc := newService(newFakeRepo(), &fakeSweeper{}, policy, checker, clk)
	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})

	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestCheckIn_NoCheckerSkipsGeofence(t *testing.T) {
	policy := newTestPolicy(t)
	clk := &stubClock{now: at(policy, 8, 30)}

	svc := newService(newFakeRepo(), &fakeSweeper{}, policy, nil, clk)
	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	assert.NoError(t, err)
}

func TestCheckOut_ClosesOpenSession(t *testing.T) {
	policy := newTestPolicy(t)
	repo := newFakeRepo()

	svc := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 9, 15)})
	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	svcNoon := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 12, 0)})
	resp, err := svcNoon.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SessionCount)
	assert.False(t, resp.AutoCheckout)

	day, _ := repo.GetByEmployeeAndDate(context.Background(), "emp-1", policy.DayOf(at(policy, 12, 0)))
	require.NotNil(t, day.Sessions[0].CheckOut)
	assert.Equal(t, 2*time.Hour+45*time.Minute, day.Sessions[0].CheckOut.Sub(day.Sessions[0].CheckIn))
}

func TestCheckOut_NoRecord(t *testing.T) {
	policy := newTestPolicy(t)
	svc := newService(newFakeRepo(), &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 12, 0)})

	_, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestCheckOut_ClosedSessionOnly(t *testing.T) {
	policy := newTestPolicy(t)
	repo := newFakeRepo()
	checkOut := at(policy, 11, 0)
	repo.put(attendance.WorkAttendanceDay{
		EmployeeID: "emp-1",
		Date:       policy.DayOf(checkOut),
		Status:     attendance.StatusPresent,
		Sessions:   []attendance.Session{{CheckIn: at(policy, 8, 0), CheckOut: &checkOut}},
	})

	svc := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 12, 0)})
	_, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestCheckOut_PastBoundaryClosesAtBoundary(t *testing.T) {
	policy := newTestPolicy(t)
	repo := newFakeRepo()
	repo.put(attendance.WorkAttendanceDay{
		EmployeeID: "emp-1",
		Date:       policy.DayOf(at(policy, 8, 0)),
		Status:     attendance.StatusPresent,
		Sessions:   []attendance.Session{{CheckIn: at(policy, 8, 0)}},
	})

	svc := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 18, 30)})
	resp, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.True(t, resp.AutoCheckout)

	day, _ := repo.GetByEmployeeAndDate(context.Background(), "emp-1", policy.DayOf(at(policy, 8, 0)))
	require.NotNil(t, day.Sessions[0].CheckOut)
	assert.True(t, day.Sessions[0].CheckOut.Equal(at(policy, 17, 0)))
	assert.True(t, day.Sessions[0].AutoClosed)
}

func TestCheckOut_AfterSweepReportsAutoCheckout(t *testing.T) {
	policy := newTestPolicy(t)
	repo := newFakeRepo()
	boundary := at(policy, 17, 0)
	repo.put(attendance.WorkAttendanceDay{
		EmployeeID: "emp-1",
		Date:       policy.DayOf(boundary),
		Status:     attendance.StatusPresent,
		Sessions:   []attendance.Session{{CheckIn: at(policy, 8, 0), CheckOut: &boundary, AutoClosed: true}},
	})

	svc := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 18, 30)})
	resp, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.True(t, resp.AutoCheckout)
	assert.Equal(t, 1, resp.SessionCount)
}

func TestCheckOut_ManualCloseBeforeBoundaryIsFinal(t *testing.T) {
	policy := newTestPolicy(t)
	repo := newFakeRepo()
	checkOut := at(policy, 14, 0)
	repo.put(attendance.WorkAttendanceDay{
		EmployeeID: "emp-1",
		Date:       policy.DayOf(checkOut),
		Status:     attendance.StatusPresent,
		Sessions:   []attendance.Session{{CheckIn: at(policy, 8, 0), CheckOut: &checkOut}},
	})

	// Past the boundary but the last session was user-closed, not swept.
	svc := newService(repo, &fakeSweeper{}, policy, nil, &stubClock{now: at(policy, 18, 30)})
	_, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestCheckIn_SweepFailureDoesNotBlock(t *testing.T) {
	policy := newTestPolicy(t)
	clk := &stubClock{now: at(policy, 8, 30)}
	swp := &fakeSweeper{err: assert.AnError}

	svc := newService(newFakeRepo(), swp, policy, nil, clk)
	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "emp-1"})
	assert.NoError(t, err)
}
