package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/pokedex/internal/metrics"
	"github.com/hitoshi/pokedex/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	TokenVerifier     middleware.TokenVerifier
	UserFinder        middleware.UserFinder
	RateLimiter       *middleware.RateLimiter
	DisplayLocation   *time.Location
	CORSAllowedOrigin string

	// 運用
	HealthChecker HealthChecker
	Metrics       *metrics.Collector
	Gatherer      prometheus.Gatherer

	// サービス
	AuthService       AuthServiceInterface
	UserService       UserServiceInterface
	PokemonService    PokemonServiceInterface
	AssignmentService AssignmentServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成した
// chi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging(+metrics) → DateLocalizer
//
// 認証が必要なルートにはさらに Auth → RateLimit を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(middleware.NewDateLocalizerMiddleware(deps.DisplayLocation))

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	pokemonHandler := NewPokemonHandler(deps.PokemonService)
	assignHandler := NewAssignmentHandler(deps.AssignmentService)

	// 認証が必要なルートに適用するチェーン: Auth → RateLimit
	authChain := chi.Middlewares{
		middleware.NewAuthMiddleware(deps.TokenVerifier, deps.UserFinder),
		deps.RateLimiter.Middleware(),
	}

	// --- 認証不要のルート ---

	r.Get("/healthz", newHealthHandler(deps.HealthChecker))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Post("/users", authHandler.Register)
	r.Post("/login", authHandler.Login)

	r.Get("/pokemon", pokemonHandler.List)
	r.Get("/pokemon/{id}", pokemonHandler.Get)

	// --- 認証が必要なルート ---

	r.With(authChain...).Get("/users", userHandler.List)
	r.With(authChain...).Get("/users/{id}", userHandler.Get)
	r.With(authChain...).Delete("/users/{id}", userHandler.Delete)

	r.With(authChain...).Get("/profile", userHandler.Profile)
	r.With(authChain...).Patch("/profile", userHandler.UpdateProfile)

	r.With(authChain...).Post("/pokemon", pokemonHandler.Create)
	r.With(authChain...).Patch("/pokemon/{id}", pokemonHandler.Update)
	r.With(authChain...).Delete("/pokemon/{id}", pokemonHandler.Delete)

	r.With(authChain...).Post("/assign-pokemon", assignHandler.Assign)
	r.With(authChain...).Get("/user-pokemons", assignHandler.ListForUser)

	return r
}

// newHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
