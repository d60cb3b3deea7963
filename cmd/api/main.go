package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/orgpulse/attendance-backend-go/internal/config"
	appHTTP "github.com/orgpulse/attendance-backend-go/internal/handler/http"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/clock"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/cron"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/geofence"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/jwt"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/timepolicy"
	"github.com/orgpulse/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/orgpulse/attendance-backend-go/internal/service/attendance"
	authService "github.com/orgpulse/attendance-backend-go/internal/service/auth"
	classAttendanceService "github.com/orgpulse/attendance-backend-go/internal/service/classattendance"
	"github.com/orgpulse/attendance-backend-go/internal/service/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.QueryTimeout)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	classAttendanceRepo := postgresql.NewClassAttendanceRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	txRunner := postgresql.NewTxRunner(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	policy, err := timepolicy.New(cfg.Attendance)
	if err != nil {
		log.Fatal("Error building time policy: ", err)
	}

	var checker *geofence.Checker
	if cfg.Geofence.Enabled {
		checker = geofence.NewChecker(cfg.Geofence.Latitude, cfg.Geofence.Longitude, cfg.Geofence.RadiusMeters)
	}

	clk := clock.System()
	sweep := sweeper.NewSweeper(attendanceRepo, classAttendanceRepo, policy, clk)

	authSvc := authService.NewAuthService(employeeRepo, jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, sweep, policy, checker, clk, txRunner)
	classAttendanceSvc := classAttendanceService.NewClassAttendanceService(
		classAttendanceRepo,
		attendanceRepo,
		assignmentRepo,
		sweep,
		policy,
		clk,
		txRunner,
	)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	classAttendanceHandler := appHTTP.NewClassAttendanceHandler(classAttendanceSvc)

	router := appHTTP.NewRouter(cfg, jwtService, authHandler, attendanceHandler, classAttendanceHandler)

	scheduler := cron.NewScheduler()
	cron.NewSweeperJobs(sweep, cfg.Attendance.SweepInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
