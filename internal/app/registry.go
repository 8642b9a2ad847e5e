package app

import (
	"database/sql"
	"path/filepath"

	"go-pto/internal/balance"
	"go-pto/internal/blackout"
	"go-pto/internal/directory"
	"go-pto/internal/messaging/kafka"
	"go-pto/internal/middleware"
	"go-pto/internal/policy"
	"go-pto/internal/ptotype"
	"go-pto/internal/rbac"
	"go-pto/internal/rbac/infra"
	"go-pto/internal/request"
	"go-pto/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	dir := directory.NewDirectory(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	typeRepo := ptotype.NewRepository(gormDB)
	policyRepo := policy.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	blackoutRepo := blackout.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	outboxRecorder := kafka.NewRecorder(outboxRepo)
	ledger := balance.NewLedger(balanceRepo)
	typeService := ptotype.NewService(typeRepo)
	blackoutService := blackout.NewService(blackoutRepo)
	policyService := policy.NewService(db, policyRepo, typeRepo, balanceRepo, ledger, dir, outboxRecorder)
	balanceService := balance.NewService(db, balanceRepo, ledger, policyService)
	chainBuilder := request.NewChainBuilder(dir)
	requestService := request.NewService(
		db,
		requestRepo,
		ledger,
		typeRepo,
		policyRepo,
		blackoutService,
		dir,
		chainBuilder,
		counterRepo,
		outboxRecorder,
	)

	// --- Handlers ---
	typeHandler := ptotype.NewHandler(typeService)
	blackoutHandler := blackout.NewHandler(blackoutService)
	policyHandler := policy.NewHandler(policyService)
	balanceHandler := balance.NewHandler(balanceService)
	requestHandler := request.NewHandler(requestService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		ptotype.RegisterRoutes(api, typeHandler, rbacService)
		blackout.RegisterRoutes(api, blackoutHandler, rbacService)
		policy.RegisterRoutes(api, policyHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		request.RegisterRoutes(api, requestHandler, rbacService, rdb)
	}

	return nil
}
