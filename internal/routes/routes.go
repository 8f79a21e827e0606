package routes

import (
	"medlink-backend/internal/handlers"
	"medlink-backend/internal/middleware"
	"medlink-backend/internal/store"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, s store.Store) {
	h := handlers.New(s)

	// Grouping API dengan Versi (v1)
	api := r.Group("/api/v1")
	{
		// Grouping Auth (publik)
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// PROTECTED ROUTES (harus login / punya token)
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", h.User.Profile)

			// MODULE USER (daftar staf; tambah akun khusus owner)
			protected.GET("/users", h.User.List)
			protected.POST("/users", middleware.OwnerOnly(), h.User.Create)

			// MODULE PASIEN
			protected.GET("/patients", h.Patient.List)
			protected.POST("/patients", h.Patient.Create)
			protected.GET("/patients/:id", h.Patient.Detail)
			protected.PATCH("/patients/:id", h.Patient.Update)
			protected.DELETE("/patients/:id", h.Patient.Delete)

			// MODULE RIWAYAT KUNJUNGAN
			protected.GET("/patients/:id/history", h.History.List)
			protected.POST("/patients/:id/history", h.History.Create)
		}
	}
}
