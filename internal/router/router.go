package router

import (
	"time"

	"github.com/Contabilizar/estoque/internal/config"
	"github.com/Contabilizar/estoque/internal/handler"
	"github.com/Contabilizar/estoque/internal/infra"
	"github.com/Contabilizar/estoque/internal/middleware"
	"github.com/Contabilizar/estoque/internal/repository"
	"github.com/Contabilizar/estoque/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the services the HTTP layer talks to. Built by NewDeps in
// production; tests may supply their own.
type Deps struct {
	Auth     service.AuthService
	Itens    service.ItemService
	Retirada service.RetiradaService
}

// NewDeps wires repositories and services.
// Dependency graph: Service ← Repository ← DB/Redis
func NewDeps(cfg *config.Config, db *gorm.DB, rdb *redis.Client) Deps {
	// ── Repositories ─────────────────────────────────────────────────────────
	funcionarioRepo := repository.NewFuncionarioRepository(db)
	itemRepo := repository.NewItemRepository(db)
	movimentacaoRepo := repository.NewMovimentacaoRepository(db)
	revogacaoRepo := repository.NewRevogacaoRepository(rdb)
	tx := repository.NewTransactor(db)

	// ── Services ─────────────────────────────────────────────────────────────
	return Deps{
		Auth:     service.NewAuthService(funcionarioRepo, revogacaoRepo, cfg),
		Itens:    service.NewItemService(itemRepo),
		Retirada: service.NewRetiradaService(funcionarioRepo, itemRepo, movimentacaoRepo, tx, cfg.PermitirEstoqueNegativo),
	}
}

// New returns a configured Gin engine.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Shared by every Redis-backed limiter.
	redisCB := infra.NewCircuitBreaker(infra.DefaultRedisCBConfig())

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimit(
		middleware.NewLimiter(rdb, redisCB, "ratelimit:api:", cfg.APIRateLimit, time.Minute),
		"Muitas requisições. Tente novamente em instantes.",
	))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(deps.Auth)
	itensH := handler.NewItensHandler(deps.Itens)
	retiradaH := handler.NewRetiradaHandler(deps.Retirada)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/", handler.Root)
	r.GET("/health", handler.Health(db, rdb, redisCB))

	loginLimiter := middleware.NewLimiter(rdb, redisCB, "ratelimit:login:", cfg.LoginRateLimit, time.Minute)
	r.POST("/login", middleware.RateLimit(loginLimiter, "Muitas tentativas de login. Tente novamente em 1 minuto."), authH.Login)

	// Protected routes
	api := r.Group("", middleware.JWTAuth(deps.Auth))
	{
		api.POST("/logout", authH.Logout)
		api.POST("/itens", itensH.Cadastrar)
		api.GET("/itens", itensH.Listar)
		api.POST("/retirada", retiradaH.Registrar)
	}

	return r
}
