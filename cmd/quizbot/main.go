package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizbot/internal/app"
	"quizbot/internal/cache"
	"quizbot/internal/config"
	"quizbot/internal/corpus"
	"quizbot/internal/repository"
	"quizbot/internal/service"
	"quizbot/internal/transport/rest"
	"quizbot/internal/transport/telegram"
	"quizbot/internal/transport/vk"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("starting quizbot")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Corpus: an empty one makes every session dead on arrival, so refuse
	// to serve at all.
	qs, err := corpus.Load(cfg.QuestionsDir)
	if err != nil {
		log.Fatalf("corpus: %v", err)
	}
	if qs.Len() == 0 {
		log.Fatalf("corpus: no questions loaded from %s", cfg.QuestionsDir)
	}
	log.Printf("loaded %d questions from %s", qs.Len(), cfg.QuestionsDir)

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		log.Fatalf("redis: ping: %v", err)
	}
	log.Println("connected to Redis")

	// Mongo attempt log (optional)
	var attempts repository.AttemptRepo
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("mongo: connect: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())

		mongoPingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(mongoPingCtx, nil); err != nil {
			log.Fatalf("mongo: ping: %v", err)
		}
		attempts = repository.NewAttemptRepo(mongoClient)
		log.Println("connected to MongoDB, attempt log enabled")
	} else {
		log.Println("MONGO_URI not set, attempt log disabled")
	}

	store := cache.NewSessionStore(rdb)
	quiz := service.NewQuizService(qs, store, attempts)
	auth := service.NewAuthService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret)

	a := &app.App{
		Corpus:   qs,
		Store:    store,
		Attempts: attempts,
		Quiz:     quiz,
		Auth:     auth,
	}

	// Admin API
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: rest.NewRouter(a),
	}
	go func() {
		log.Printf("admin API listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("admin API: %v", err)
		}
	}()

	// Channel adapters
	var wg sync.WaitGroup
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, quiz)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Run(ctx)
		}()
	}
	if cfg.VKToken != "" {
		bot, err := vk.NewBot(cfg.VKToken, quiz)
		if err != nil {
			log.Fatalf("vk: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("vk: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("admin API shutdown: %v", err)
	}
	wg.Wait()
	log.Println("stopped")
}
