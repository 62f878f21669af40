package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"formfill-backend/internal/delivery"
	"formfill-backend/internal/instances"
	"formfill-backend/internal/payments"
	"formfill-backend/internal/shared/config"
	"formfill-backend/internal/shared/mailer"
	"formfill-backend/internal/shared/server"
	"formfill-backend/internal/shared/storage/db"
	"formfill-backend/internal/shared/storage/object"
	localstore "formfill-backend/internal/shared/storage/object/local"
	s3store "formfill-backend/internal/shared/storage/object/s3"
	"formfill-backend/internal/templates"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	Mailer mailer.Mailer

	TemplatesRepo templates.Repo
	InstancesRepo instances.Repo

	TemplatesService *templates.Service
	InstancesService *instances.Service
	PaymentsService  *payments.Service
	DeliveryService  *delivery.Service

	TemplateHandler *templates.Handler
	InstanceHandler *instances.Handler
	PaymentHandler  *payments.Handler
}

// Build prepares all dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Mailer: buildMailer(cfg),
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		TemplateHandler: app.TemplateHandler,
		InstanceHandler: app.InstanceHandler,
		PaymentHandler:  app.PaymentHandler,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildMailer(cfg config.Config) mailer.Mailer {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return mailer.LogMailer{}
	}
	return &mailer.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
	}
}

func buildGateway(cfg config.Config) payments.Gateway {
	if strings.TrimSpace(cfg.StripeSecretKey) == "" && isDevLike(cfg.Env) {
		log.Printf("bootstrap: STRIPE_SECRET_KEY empty; using fake payment gateway")
		return &payments.FakeGateway{
			BaseURL:       cfg.PublicBaseURL,
			WebhookSecret: cfg.StripeWebhookSecret,
		}
	}
	return payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
}

func buildServices(app *App) {
	cfg := app.Config

	var tmplRepo templates.Repo
	var instRepo instances.Repo
	if app.DB != nil {
		tmplRepo = &templates.PGRepo{DB: app.DB}
		instRepo = &instances.PGRepo{DB: app.DB}
	} else {
		tmplRepo = templates.NewMemoryRepo()
		instRepo = instances.NewMemoryRepo()
	}

	tmplSvc := &templates.Service{Store: app.Store, Repo: tmplRepo}

	paySvc := &payments.Service{Gateway: buildGateway(cfg)}

	instSvc := &instances.Service{
		Repo:              instRepo,
		Templates:         tmplSvc,
		Store:             app.Store,
		Payments:          paySvc,
		DefaultPriceCents: cfg.DefaultPriceCents,
		PublicBaseURL:     cfg.PublicBaseURL,
	}
	paySvc.Recorder = instSvc

	delSvc := &delivery.Service{
		Store:         app.Store,
		Mailer:        app.Mailer,
		LinkTTL:       cfg.DownloadLinkTTL,
		PublicBaseURL: cfg.PublicBaseURL,
		EmailFrom:     cfg.EmailFrom,
	}

	app.TemplatesRepo = tmplRepo
	app.InstancesRepo = instRepo
	app.TemplatesService = tmplSvc
	app.InstancesService = instSvc
	app.PaymentsService = paySvc
	app.DeliveryService = delSvc
	app.TemplateHandler = templates.NewHandler(tmplSvc)
	app.InstanceHandler = instances.NewHandler(instSvc, delSvc)
	app.PaymentHandler = payments.NewHandler(paySvc)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
