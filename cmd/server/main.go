package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"event-checkin/internal/api"
	"event-checkin/internal/channel"
	"event-checkin/internal/config"
	"event-checkin/internal/database"
	"event-checkin/internal/dispatch"
	"event-checkin/internal/media"
	"event-checkin/internal/message"
	"event-checkin/internal/recognize"
	"event-checkin/internal/registry"
	"event-checkin/internal/stylize"
	"event-checkin/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg := config.LoadConfig()

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Database init failed")
	}

	captures, err := media.NewStore(cfg.UploadsDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Capture store init failed")
	}

	client, err := channel.NewWhatsmeow(cfg.ChannelDataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Channel client init failed")
	}

	hub := ws.NewHub(log)
	go hub.Run()

	manager := channel.NewManager(client, log)
	manager.SetNotify(func(snap channel.Snapshot) { hub.NotifyStatus(snap) })
	client.SetEvents(manager)
	manager.Start(context.Background())

	guests := registry.New(db, cfg.CountryCode, log)
	templates := message.NewTemplateStore(db)
	recognizer := recognize.NewClient(cfg.RecognizerURL)

	// Souvenir-photo compositing is opt-in; without a stylizer the raw
	// capture is sent.
	var stylizer api.Stylizer
	if cfg.StylizerURL != "" {
		stylizer = stylize.NewClient(cfg.StylizerURL, cfg.StylizerAPIKey)
	}

	dispatcher := dispatch.NewDispatcher(guests, manager, templates, db, log)
	broadcaster := dispatch.NewBroadcaster(manager, dispatch.NewHTTPFetcher(), cfg.CountryCode, cfg.BroadcastDelay, log)
	jobs := dispatch.NewJobRunner(broadcaster, log)
	jobs.SetNotify(func(job dispatch.Job) { hub.NotifyBroadcast(job) })

	checkinHandler := api.NewCheckinHandler(recognizer, guests, captures, dispatcher, stylizer, hub, log)
	guestHandler := api.NewGuestHandler(guests)
	broadcastHandler := api.NewBroadcastHandler(jobs)
	statusHandler := api.NewStatusHandler(manager)
	templateHandler := api.NewTemplateHandler(templates)

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/ws", func(c *gin.Context) { hub.ServeWs(c.Writer, c.Request) })

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", statusHandler.GetStatus)

		// Check-in flow
		apiGroup.POST("/scan", checkinHandler.ScanFace)
		apiGroup.POST("/manual-entry", checkinHandler.ManualEntry)
		apiGroup.POST("/confirm", checkinHandler.Confirm)

		// Guest registry
		apiGroup.GET("/guests", guestHandler.GetGuests)
		apiGroup.POST("/guests/import", guestHandler.ImportGuests)
		apiGroup.DELETE("/guests/:name", guestHandler.DeleteGuest)
		apiGroup.PUT("/guests/:name/toggle", guestHandler.ToggleEntered)

		// Bulk broadcast
		apiGroup.POST("/broadcast", broadcastHandler.StartBroadcast)
		apiGroup.GET("/broadcast/:id", broadcastHandler.GetBroadcast)
		apiGroup.DELETE("/broadcast/:id", broadcastHandler.CancelBroadcast)

		// Message template
		apiGroup.GET("/template", templateHandler.GetTemplate)
		apiGroup.POST("/template", templateHandler.UpdateTemplate)
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	manager.Stop()
}
