package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"atendo/internal/app"
	"atendo/internal/app/config"
	"atendo/internal/app/server"
	"atendo/internal/http/router"
	"atendo/internal/infra/cache"
	"atendo/internal/infra/database"
	"atendo/pkg/logger"
)

func main() {
	// Carregar configuração
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Configurar logger usando as configurações do .env
	log := logger.Setup(cfg).WithComponent("main")

	log.WithFields(map[string]interface{}{
		"env":  cfg.App.Env,
		"port": cfg.App.Port,
	}).Info().Msg("Starting Atendo API")

	// Conectar ao banco de dados
	dsn := cfg.GetDatabaseDSN()

	db, err := database.NewDatabase(dsn, cfg.App.Env == "development", log)
	if err != nil {
		log.WithError(err).Fatal().Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Connected to database successfully")

	// Executar migrações
	if err := database.RunMigrations(db); err != nil {
		log.WithError(err).Fatal().Msg("Failed to run migrations")
	}

	// Espelho de presença em Redis (opcional)
	var mirror *cache.PresenceMirror
	if cfg.RedisEnabled() {
		mirror, err = cache.NewPresenceMirror(
			context.Background(),
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Presence.InactiveThreshold,
			log,
		)
		if err != nil {
			log.WithError(err).Fatal().Msg("Failed to connect to redis")
		}
		log.Info().Msg("Redis presence mirror enabled")
	}

	// Inicializar container de dependências
	container, err := app.NewContainer(cfg, db, mirror)
	if err != nil {
		log.WithError(err).Fatal().Msg("Failed to initialize container")
	}
	defer container.Close()

	// Configurar router com handlers
	handler := router.New(
		cfg,
		log,
		container.Authenticator,
		container.HealthHandler,
		container.StatusHandler,
		container.WebSocketHandler,
		container.AtendimentoHandler,
	)

	// Criar servidor
	srv := server.New(cfg, handler, log)

	// Canal para capturar sinais do sistema
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Iniciar servidor em goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.WithError(err).Fatal().Msg("Failed to start server")
		}
	}()

	// Varredura periódica de reconciliação do status durável
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(cfg.Presence.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := container.SweepUC.Execute(sweepCtx); err != nil {
					log.WithError(err).Error().Msg("Presence sweep failed")
				}
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	log.Info().Msg("Atendo API started successfully")

	// Aguardar sinal de parada
	<-stop
	cancelSweep()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.WithError(err).Error().Msg("Error during server shutdown")
	}

	log.Info().Msg("Application stopped")
}
