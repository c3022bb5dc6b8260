package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	. "credstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("loading config", "err", err)
		os.Exit(1)
	}

	store, err := newStore(cfg)
	if err != nil {
		logger.Error("initializing store", "err", err)
		os.Exit(1)
	}

	verifier, err := NewVerifier(cfg.PasswordScheme)
	if err != nil {
		logger.Error("initializing verifier", "err", err)
		os.Exit(1)
	}

	svc := NewService(store, verifier)
	handler := RequestLogger(NewRouter(svc, cfg.StaticDir), logger)

	logger.Info("server started", "addr", cfg.Addr, "backend", cfg.StoreBackend)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newStore(cfg Config) (Store, error) {
	switch cfg.StoreBackend {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, err
		}
		return NewMongoStore(client.Database(cfg.MongoDatabase).Collection("users")), nil
	case "memory":
		return NewMemStore(), nil
	case "file":
		return NewFileStore(cfg.UsersFile), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
