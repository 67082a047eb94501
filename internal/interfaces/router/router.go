package router

import (
	"net/http"

	authsvc "keystone-backend/internal/application/auth"
	billingsvc "keystone-backend/internal/application/billing"
	leasesvc "keystone-backend/internal/application/leases"
	maintsvc "keystone-backend/internal/application/maintenance"
	orgsvc "keystone-backend/internal/application/org"
	propsvc "keystone-backend/internal/application/properties"
	reportsvc "keystone-backend/internal/application/reports"
	usersvc "keystone-backend/internal/application/user"
	"keystone-backend/internal/config"
	"keystone-backend/internal/infrastructure/database"
	authhandler "keystone-backend/internal/interfaces/handlers/auth"
	billinghandler "keystone-backend/internal/interfaces/handlers/billing"
	healthhandler "keystone-backend/internal/interfaces/handlers/health"
	leasehandler "keystone-backend/internal/interfaces/handlers/leases"
	mainthandler "keystone-backend/internal/interfaces/handlers/maintenance"
	orghandler "keystone-backend/internal/interfaces/handlers/org"
	payhandler "keystone-backend/internal/interfaces/handlers/payments"
	prophandler "keystone-backend/internal/interfaces/handlers/properties"
	reporthandler "keystone-backend/internal/interfaces/handlers/reports"
	userhandler "keystone-backend/internal/interfaces/handlers/user"
	"keystone-backend/internal/middleware"
	"keystone-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	// Webhook is mounted before the session middleware so the raw body and
	// signature survive untouched.
	stripeWebhook := &payhandler.WebhookHandler{WebhookSecret: cfg.StripeWebhookSecret}
	app.Post("/api/stripe/webhook", func(c *fiber.Ctx) error {
		return stripeWebhook.HandleWebhook(c)
	})

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		billing := &billingsvc.Service{DB: db}
		stripeWebhook.Billing = billing

		// Users
		us := &usersvc.Service{DB: db, Rdb: rdb}
		uh := &userhandler.Handlers{Service: us, Config: sessionCfg}
		// create-user is public (registration)
		app.Post("/api/users/create-user", uh.CreateUser)
		ug := app.Group("/api/users", middleware.RequireAuth())
		ug.Put("/update-user", uh.UpdateUser)
		ug.Get("/view-user", uh.ViewUser)
		ug.Patch("/update-role", middleware.AuthorizePermission(constants.AssignRole), uh.UpdateRole)
		ug.Delete("/remove-user", middleware.AuthorizePermission(constants.RemoveUser), uh.RemoveUser)

		// Orgs
		os := &orgsvc.Service{DB: db}
		oh := &orghandler.Handlers{Service: os, Config: sessionCfg}
		og := app.Group("/api/orgs", middleware.RequireAuth())
		og.Post("/create-org", oh.CreateOrg)
		og.Get("/view-org", oh.ViewOrg)
		og.Patch("/update-org/:id", middleware.AuthorizePermission(constants.UpdateOrg), oh.UpdateOrg)

		// Properties
		ps := &propsvc.Service{DB: db}
		ph := &prophandler.Handlers{Service: ps}
		pg := app.Group("/api/properties", middleware.RequireAuth())
		pg.Post("/", middleware.AuthorizePermission(constants.ManageProperties), ph.Create)
		pg.Get("/", ph.List)
		pg.Get("/:id", ph.Get)
		pg.Patch("/units/:id", middleware.AuthorizePermission(constants.ManageProperties), ph.UpdateUnit)

		// Leases
		ls := &leasesvc.Service{DB: db}
		lh := &leasehandler.Handlers{Service: ls}
		lg := app.Group("/api/leases", middleware.RequireAuth())
		lg.Post("/", middleware.AuthorizePermission(constants.ManageLeases), lh.Create)
		lg.Get("/", lh.List)
		lg.Get("/:id", lh.Get)
		lg.Post("/:id/terminate", middleware.AuthorizePermission(constants.ManageLeases), lh.Terminate)

		// Billing
		bh := &billinghandler.Handlers{Service: billing}
		bg := app.Group("/api/billing", middleware.RequireAuth())
		bg.Post("/post-monthly", middleware.AuthorizePermission(constants.RecordPayments), bh.PostMonthly)
		bg.Post("/charges", middleware.AuthorizePermission(constants.RecordPayments), bh.CreateCharge)
		bg.Post("/payments", middleware.AuthorizePermission(constants.RecordPayments), bh.RecordPayment)
		bg.Get("/payments", bh.ListPayments)

		// Maintenance
		ms := &maintsvc.Service{DB: db}
		mh := &mainthandler.Handlers{Service: ms}
		mg := app.Group("/api/maintenance", middleware.RequireAuth())
		mg.Post("/requests", middleware.AuthorizePermission(constants.ManageMaintenance), mh.CreateRequest)
		mg.Patch("/requests/:id", middleware.AuthorizePermission(constants.ManageMaintenance), mh.UpdateRequest)
		mg.Get("/requests", mh.ListRequests)
		mg.Post("/vendors", middleware.AuthorizePermission(constants.ManageMaintenance), mh.CreateVendor)
		mg.Get("/vendors", mh.ListVendors)

		// Reports
		engine := reportsvc.NewEngine(&reportsvc.Store{DB: db})
		rh := &reporthandler.Handlers{Engine: engine}
		rg := app.Group("/api/reports", middleware.RequireAuth())
		rg.Get("/", rh.List)
		rg.Post("/favorites", rh.AddFavorite)
		rg.Delete("/favorites/:type", rh.RemoveFavorite)
		rg.Get("/:type", rh.Generate)
	}

	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
