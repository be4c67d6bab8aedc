package main

import (
	"log"

	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/db"
	"github.com/greenloophq/greenloop/mailingservices"
	"github.com/greenloophq/greenloop/server"
	"github.com/greenloophq/greenloop/services"
	"github.com/greenloophq/greenloop/services/verification"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init(conf)

	gormDB := db.GetDB(conf)

	authRepo := db.NewAuthRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	collectionRepo := db.NewCollectionRepo(gormDB)
	rewardRepo := db.NewRewardRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)

	verifier := verification.NewGeminiVerifier(conf)
	mediaService := services.NewMediaService(conf)

	authService := services.NewAuthService(authRepo, conf)
	reportService := services.NewReportService(reportRepo, verifier, mediaService, conf)
	collectionService := services.NewCollectionService(collectionRepo, reportRepo, verifier, conf)
	rewardService := services.NewRewardService(rewardRepo, notificationRepo, authRepo, mailgunClient, conf)
	notificationService := services.NewNotificationService(notificationRepo, conf)

	s := &server.Server{
		Config:              conf,
		Mail:                mailgunClient,
		AuthRepository:      authRepo,
		AuthService:         authService,
		ReportService:       reportService,
		CollectionService:   collectionService,
		RewardService:       rewardService,
		NotificationService: notificationService,
		MediaService:        mediaService,
		DB:                  *gormDB,
	}
	s.Start()
}
