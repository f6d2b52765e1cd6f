package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petcare/internal/config"
	"petcare/internal/domain"
	"petcare/internal/middleware"
	"petcare/internal/modules/auth"
	"petcare/internal/modules/billing"
	"petcare/internal/modules/booking"
	"petcare/internal/modules/catalog"
	"petcare/internal/modules/dailycharge"
	"petcare/internal/modules/deposit"
	"petcare/internal/modules/examination"
	"petcare/internal/modules/expense"
	"petcare/internal/modules/inventory"
	"petcare/internal/modules/mix"
	"petcare/internal/modules/owner"
	"petcare/internal/modules/payment"
	"petcare/internal/modules/staff"
	"petcare/internal/modules/usage"
	"petcare/internal/modules/visit"
	"petcare/internal/pkg/jwt"
	"petcare/internal/pkg/logger"
	"petcare/internal/policy"
	"petcare/internal/repository"
)

// Services is the wired service layer. Binaries that run without HTTP use it
// directly.
type Services struct {
	Auth        *auth.Service
	Staff       *staff.Service
	Owner       *owner.Service
	Catalog     *catalog.Service
	Inventory   *inventory.Service
	Mix         *mix.Service
	Booking     *booking.Service
	Examination *examination.Service
	Visit       *visit.Service
	DailyCharge *dailycharge.Service
	Deposit     *deposit.Service
	Usage       *usage.Service
	Billing     *billing.Service
	Payment     *payment.Service
	Expense     *expense.Service
}

// NewServices builds repositories and services over one database handle.
func NewServices(db *gorm.DB, jwtService *jwt.Service, log *zap.Logger) *Services {
	log = logger.OrNop(log)
	pol := policy.Default()

	accountRepo := repository.NewAccountRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	ownerRepo := repository.NewOwnerRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	examRepo := repository.NewExaminationRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	chargeRepo := repository.NewDailyChargeRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	engine := usage.NewEngine(productRepo, inventoryRepo, log.Named("usage"))
	staffService := staff.NewService(staffRepo, pol, log.Named("staff"))
	bookingService := booking.NewService(db, bookingRepo, ownerRepo, catalogRepo, engine, pol, log.Named("booking"))

	return &Services{
		Auth:        auth.NewService(accountRepo, staffRepo, jwtService, pol, log.Named("auth")),
		Staff:       staffService,
		Owner:       owner.NewService(db, ownerRepo, bookingService, log.Named("owner")),
		Catalog:     catalog.NewService(catalogRepo, productRepo, inventoryRepo, pol, log.Named("catalog")),
		Inventory:   inventory.NewService(inventoryRepo, productRepo, pol, log.Named("inventory")),
		Mix:         mix.NewService(db, bookingRepo, productRepo, examRepo, visitRepo, engine, pol, log.Named("mix")),
		Booking:     bookingService,
		Examination: examination.NewService(db, bookingRepo, examRepo, staffService, engine, log.Named("examination")),
		Visit:       visit.NewService(db, bookingRepo, visitRepo, staffService, engine, log.Named("visit")),
		DailyCharge: dailycharge.NewService(db, bookingRepo, chargeRepo, log.Named("dailycharge")),
		Deposit:     deposit.NewService(db, bookingRepo, depositRepo, log.Named("deposit")),
		Usage:       usage.NewService(db, bookingRepo, productRepo, engine, log.Named("usage")),
		Billing:     billing.NewService(db, bookingRepo, productRepo, paymentRepo, log.Named("billing")),
		Payment:     payment.NewService(paymentRepo, bookingRepo, pol, log.Named("payment")),
		Expense:     expense.NewService(expenseRepo, pol, log.Named("expense")),
	}
}

// NewRouter wires the HTTP API. Everything except login and health sits
// behind JWT auth.
func NewRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	log = logger.OrNop(log)
	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	svc := NewServices(db, jwtService, log)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := auth.NewHandler(svc.Auth)

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		staff.NewHandler(svc.Staff).RegisterRoutes(protected)
		owner.NewHandler(svc.Owner).RegisterRoutes(protected)
		catalog.NewHandler(svc.Catalog).RegisterRoutes(protected)
		inventory.NewHandler(svc.Inventory).RegisterRoutes(protected)
		mix.NewHandler(svc.Mix).RegisterRoutes(protected)
		booking.NewHandler(svc.Booking).RegisterRoutes(protected)
		examination.NewHandler(svc.Examination).RegisterRoutes(protected)
		visit.NewHandler(svc.Visit).RegisterRoutes(protected)
		dailycharge.NewHandler(svc.DailyCharge).RegisterRoutes(protected)
		deposit.NewHandler(svc.Deposit).RegisterRoutes(protected)
		usage.NewHandler(svc.Usage).RegisterRoutes(protected)
		billing.NewHandler(svc.Billing).RegisterRoutes(protected)
		payment.NewHandler(svc.Payment).RegisterRoutes(protected)
	}

	// bookkeeping is not for floor staff
	office := protected.Group("")
	office.Use(middleware.RequireRole(domain.RoleMaster, domain.RoleSupervisor))
	{
		expense.NewHandler(svc.Expense).RegisterRoutes(office)
	}

	return r
}
