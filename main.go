package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MediBook/auth"
	"MediBook/cache"
	"MediBook/config"
	"MediBook/controllers"
	"MediBook/jobs"
	"MediBook/mail"
	"MediBook/middleware"
	"MediBook/migrations"
	"MediBook/repository"
	"MediBook/repository/memory"
	"MediBook/routes"
	"MediBook/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var startServer = serve

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg)
	gin.SetMode(cfg.GinMode)

	app, err := newApplication(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer app.close()

	return startServer(&http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

type stores struct {
	users        services.UserStore
	doctors      services.DoctorStore
	appointments services.AppointmentStore
	db           controllers.Pinger
	close        func(context.Context) error
}

type application struct {
	router    *gin.Engine
	scheduler *cron.Cron
	closers   []func(context.Context) error
}

/*
* Open the datastore and the cache
* Build the services and the router
* Start the daily jobs when enabled
 */
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	app := &application{}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, st.close)

	c, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		app.close()
		return nil, err
	}
	app.closers = append(app.closers, closeCache)

	issuer, err := auth.NewIssuer(
		auth.Namespace{Role: auth.RoleUser, Secret: []byte(cfg.UserTokenSecret), CookieName: "usertoken", TTL: cfg.UserTokenTTL},
		auth.Namespace{Role: auth.RoleDoctor, Secret: []byte(cfg.DoctorTokenSecret), CookieName: "doctortoken", TTL: cfg.DoctorTokenTTL},
		auth.Namespace{Role: auth.RoleAdmin, Secret: []byte(cfg.AdminTokenSecret), CookieName: "admintoken", TTL: cfg.AdminTokenTTL},
	)
	if err != nil {
		app.close()
		return nil, err
	}

	var notifier services.Notifier = mail.Nop{}
	if cfg.MailEnabled() {
		notifier = mail.NewNotifier(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}

	doctors := services.NewDoctorService(st.doctors, c, cfg.CacheTTL)
	reports := services.NewReportService(st.appointments, c, cfg.CacheTTL)
	appointments := services.NewAppointmentService(st.appointments, st.users, doctors, reports, notifier)

	if err := controllers.RegisterValidators(); err != nil {
		app.close()
		return nil, err
	}
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.LoginRateLimit),
		Burst: cfg.LoginBurst,
	})
	ctl := controllers.New(controllers.Deps{
		Auth:         services.NewAuthService(st.users, st.doctors, issuer),
		Doctors:      doctors,
		Users:        services.NewUserService(st.users),
		Appointments: appointments,
		Reports:      reports,
		Issuer:       issuer,
		DB:           st.db,
		CookieSecure: cfg.CookieSecure,
		LoginLimit:   limiter.RateLimit(),
	})
	app.router = newRouter(cfg, ctl)

	if cfg.JobsEnabled {
		scheduler, err := jobs.StartDailyScheduler(reports, appointments)
		if err != nil {
			app.close()
			return nil, err
		}
		app.scheduler = scheduler
	}
	return app, nil
}

func newRouter(cfg *config.Config, ctl *controllers.Controller) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderXRequestID},
			ExposeHeaders:    []string{middleware.HeaderXRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	routes.Routes(r, ctl)
	return r
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn().Msg("Using the in-memory store, data is lost on restart")
		m := memory.NewStore()
		if err := migrations.SeedAdmin(ctx, m.Users, adminSeed(cfg)); err != nil {
			return nil, err
		}
		return &stores{users: m.Users, doctors: m.Doctors, appointments: m.Appointments, db: m, close: m.Close}, nil
	}

	store, err := repository.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout, cfg.MongoConnectAttempts)
	if err != nil {
		return nil, err
	}
	if cfg.MigrationsEnabled {
		err := migrations.Run(ctx, store.DB, adminSeed(cfg))
		if err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
	}
	return &stores{users: store.Users, doctors: store.Doctors, appointments: store.Appointments, db: store, close: store.Close}, nil
}

func adminSeed(cfg *config.Config) migrations.AdminSeed {
	return migrations.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(context.Context) error, error) {
	if cfg.CacheDriver == config.DriverRedis {
		client, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedis(client), func(context.Context) error { return client.Close() }, nil
	}
	return cache.NewMemory(cfg.CacheTTL, 2*cfg.CacheTTL), func(context.Context) error { return nil }, nil
}

func (a *application) close() {
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Error().Err(err).Msg("Error while closing")
		}
	}
}

// serve runs until SIGINT or SIGTERM, then drains in-flight requests.
func serve(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("Server exited properly")
	return nil
}
