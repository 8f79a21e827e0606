package main

import (
	"log"

	"medlink-backend/internal/config"
	"medlink-backend/internal/middleware"
	"medlink-backend/internal/routes"
	"medlink-backend/internal/store"
	"medlink-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Logger untuk peringatan operator dari store (file korup dsb)
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Gagal inisialisasi logger: ", err)
	}
	defer logger.Sync()

	// 3. Buka Store — SATU instance untuk seumur hidup proses,
	// dibagikan ke semua handler lewat routes (bukan global)
	st, err := store.Open(cfg.StoreDriver, cfg.DataDir, logger)
	if err != nil {
		log.Fatal("Gagal membuka store: ", err)
	}
	defer st.Close()

	// 4. Init Router + Middleware Global
	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(5, 10))

	// 5. Setup Routes
	routes.SetupRoutes(r, st)

	// 6. Health check
	r.GET("/ping", func(c *gin.Context) {
		utils.APIResponse(c, 200, true, "Server OK!", nil)
	})

	// 7. Run Server
	log.Println("Server berjalan di port " + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server gagal jalan: ", err)
	}
}
