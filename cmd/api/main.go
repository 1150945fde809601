package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/config"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/identity"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/hris-payroll/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll/internal/repository/memory"
	"github.com/cmlabs-hris/hris-payroll/internal/repository/postgresql"
	approvalService "github.com/cmlabs-hris/hris-payroll/internal/service/approval"
	"github.com/cmlabs-hris/hris-payroll/internal/service/authz"
	payrollService "github.com/cmlabs-hris/hris-payroll/internal/service/payroll"
)

// repositories is the persistence selected by STORAGE_DRIVER.
type repositories struct {
	employees  employee.EmployeeRepository
	identities identity.Provider
	ledger     attendance.Ledger
	leaves     leave.Repository
	overtimes  overtime.Repository
	slips      payroll.SlipRepository
	complaints payroll.ComplaintRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(os.Stdout, "hris-payroll", cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	resolver := authz.NewResolver(repos.identities, repos.employees)
	leaveEngine := approvalService.NewEngine[leave.Payload](repos.leaves, repos.employees, resolver)
	overtimeEngine := approvalService.NewEngine[overtime.Payload](repos.overtimes, repos.employees, resolver)
	payrollSvc := payrollService.NewService(repos.slips, repos.complaints, repos.employees, repos.ledger, resolver)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{Logger: logger, AllowedOrigins: cfg.CORS.AllowedOrigins},
		JWTService,
		appHTTP.NewLeaveRequestHandler(leaveEngine),
		appHTTP.NewOvertimeRequestHandler(overtimeEngine),
		appHTTP.NewSalaryHandler(payrollSvc, cfg.Payslip.CompanyName),
		appHTTP.NewComplaintHandler(payrollSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", server.Addr, "storage", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.Database.Driver == config.StorageDriverMemory {
		slog.Warn("using in-memory storage; data is lost on restart")
		dir := memory.NewDirectory()
		return &repositories{
			employees:  dir,
			identities: dir,
			ledger:     dir,
			leaves:     memory.NewRequestRepository[leave.Payload](dir),
			overtimes:  memory.NewRequestRepository[overtime.Payload](dir),
			slips:      memory.NewSlipRepository(dir),
			complaints: memory.NewComplaintRepository(dir),
			close:      func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return &repositories{
		employees:  postgresql.NewEmployeeRepository(db),
		identities: postgresql.NewIdentityProvider(db),
		ledger:     postgresql.NewAttendanceLedger(db),
		leaves:     postgresql.NewLeaveRequestRepository(db),
		overtimes:  postgresql.NewOvertimeRequestRepository(db),
		slips:      postgresql.NewSalarySlipRepository(db),
		complaints: postgresql.NewSalaryComplaintRepository(db),
		close:      db.Close,
	}, nil
}
