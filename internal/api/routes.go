package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"genetix/internal/api/handlers"
	jwtMiddleware "genetix/internal/api/middleware"
	"genetix/internal/config"
)

func SetupRoutes(e *echo.Echo, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	e.GET("/health", healthCheck)

	wsHandler := handlers.NewWebSocketHandler(cfg)
	e.GET("/api/ws", wsHandler.HandleConnection)

	e.Validator = NewValidator()

	authHandler := handlers.NewAuthHandler(db, cfg.JWTKey)
	authGroup := e.Group("/api/auth")
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/signin", authHandler.SignIn)

	jwtConfig := echojwt.Config{
		SigningKey: []byte(cfg.JWTKey),
		ContextKey: "user",
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		},
	}

	apiGroup := e.Group("/api")
	apiGroup.Use(echojwt.WithConfig(jwtConfig))
	apiGroup.Use(jwtMiddleware.ExtractTrainerIDFromJWT())

	platformHandler := handlers.NewPlatformHandler(db)
	apiGroup.POST("/platform", platformHandler.Initialize)
	apiGroup.GET("/platform", platformHandler.Get)
	apiGroup.PUT("/platform/fee", platformHandler.UpdateFee)
	apiGroup.PUT("/platform/soul_stone_price", platformHandler.SetSoulStonePrice)
	apiGroup.POST("/platform/reward", platformHandler.Reward)
	apiGroup.GET("/treasury", platformHandler.GetTreasury)
	apiGroup.POST("/treasury/withdraw", platformHandler.Withdraw)
	apiGroup.POST("/templates", platformHandler.AddTemplate)
	apiGroup.GET("/templates", platformHandler.ListTemplates)
	apiGroup.GET("/templates/:template_id", platformHandler.GetTemplate)
	apiGroup.PUT("/templates/:template_id/active", platformHandler.SetTemplateActive)

	creatureHandler := handlers.NewCreatureHandler(db)
	apiGroup.POST("/creatures/mint", creatureHandler.Mint)
	apiGroup.POST("/soul_stones/mint", creatureHandler.MintSoulStone)
	apiGroup.GET("/creatures/mine", creatureHandler.ListMine)
	apiGroup.GET("/creatures/:id", creatureHandler.Get)
	apiGroup.POST("/creatures/:id/evolve", creatureHandler.Evolve)
	apiGroup.PUT("/creatures/:id/media", creatureHandler.UpdateMedia)
	apiGroup.GET("/balances", creatureHandler.Balances)

	battleHandler := handlers.NewBattleHandler(db, rdb)
	apiGroup.POST("/battles", battleHandler.Create)
	apiGroup.GET("/battles/open", battleHandler.ListOpen)
	apiGroup.GET("/battles/:battle_id", battleHandler.Get)
	apiGroup.POST("/battles/:battle_id/join", battleHandler.Join)
	apiGroup.POST("/battles/:battle_id/resolve", battleHandler.Resolve)
}

func healthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
