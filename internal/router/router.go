package router

import (
	"database/sql"
	"net/http"

	_ "pasture-rotation/docs"
	mem "pasture-rotation/internal/adapters/storage/memory"
	pg "pasture-rotation/internal/adapters/storage/postgres"
	"pasture-rotation/internal/config"
	"pasture-rotation/internal/domain/lots"
	"pasture-rotation/internal/domain/paddocks"
	"pasture-rotation/internal/domain/rotation"
	"pasture-rotation/internal/middleware"
	"pasture-rotation/internal/platform/logger"
	"pasture-rotation/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// nil = logger desde env
	Logger logger.Logger

	// Zero value = config.Defaults().Grazing
	Grazing config.GrazingConfig
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}
	grazing := opts.Grazing
	if grazing == (config.GrazingConfig{}) {
		grazing = config.Defaults().Grazing
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		paddockRepo paddocks.Repository
		lotRepo     lots.Repository
		store       rotation.Store
	)

	if opts.DB != nil {
		paddockRepo = pg.NewPaddocksRepo(opts.DB)
		lotRepo = pg.NewLotsRepo(opts.DB)
		store = pg.NewRotationStore(opts.DB)
	} else {
		ms := mem.NewStore()
		paddockRepo = ms.Paddocks()
		lotRepo = ms.Lots()
		store = ms
	}

	// Services por módulo
	eval := paddocks.NewEvaluator(grazing.ForageParams(), paddocks.NewStatusEngine(grazing.RecoveryDays))
	calc := lots.NewCalculator(eval, grazing.IntakeFraction)

	paddocksSvc := paddocks.NewService(paddockRepo, eval, grazing.DefaultEfficiency)
	lotsSvc := lots.NewService(lotRepo, paddockRepo, calc)
	rotationSvc := rotation.NewService(store, lotRepo, calc, log.With(map[string]any{"module": "rotation"}))

	// editar un potrero ocupado recalcula la permanencia del lote en la misma transacción
	paddocksSvc.UseEditor(rotationSvc)

	// Rutas por módulo
	paddocks.RegisterRoutes(r, paddocksSvc)
	lots.RegisterRoutes(r, lotsSvc)
	rotation.RegisterRoutes(r, rotationSvc)

	return r
}
