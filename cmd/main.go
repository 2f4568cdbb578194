package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/velvetsocial/community-backend/config"
	"github.com/velvetsocial/community-backend/database"
	_ "github.com/velvetsocial/community-backend/docs"
	"github.com/velvetsocial/community-backend/internal/auditlog"
	"github.com/velvetsocial/community-backend/internal/auth"
	"github.com/velvetsocial/community-backend/internal/event"
	"github.com/velvetsocial/community-backend/internal/notification"
	"github.com/velvetsocial/community-backend/internal/profile"
	"github.com/velvetsocial/community-backend/internal/review"
	"github.com/velvetsocial/community-backend/internal/rsvp"
	"github.com/velvetsocial/community-backend/routes"
	"github.com/velvetsocial/community-backend/utils"
)

// @title Velvet Social Community API
// @version 1.0
// @description Event RSVP, capacity and check-in backend for the community platform
// @BasePath /api/v1
func main() {
	cfg := config.Load()

	db := database.Connect(cfg)

	if err := utils.InitRedis(); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	utils.InitializeKafka()
	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ Firebase disabled: %v", err)
	}

	if err := db.AutoMigrate(
		&auth.UserRole{},
		&auth.User{},
		&profile.Profile{},
		&event.Event{},
		&rsvp.RSVP{},
		&review.Review{},
		&notification.Notification{},
		&notification.DeviceToken{},
		&auditlog.AuditLog{},
	); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Migrations complete")

	if err := auth.SeedUserRoles(db); err != nil {
		log.Fatalf("❌ Role seeding failed: %v", err)
	}
	if err := auth.SeedAdminUser(db); err != nil {
		log.Fatalf("❌ Admin seeding failed: %v", err)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	deps := routes.Setup(router, db, cfg)

	go notification.StartKafkaConsumer(context.Background(), deps.Notifications)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
