package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/config"
	appHTTP "github.com/peoplemesh/hrops-console-go/internal/handler/http"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/database"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/watch"
	"github.com/peoplemesh/hrops-console-go/internal/repository/postgresql"
	lockService "github.com/peoplemesh/hrops-console-go/internal/service/lock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if err := cfg.ValidateLockService(); err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if err := postgresql.EnsureSchema(context.Background(), db); err != nil {
		fmt.Println("Error preparing schema:", err)
		return
	}

	lockRepo := postgresql.NewRecordLockRepository(db)
	locks := lockService.NewService(lockRepo, cfg.Lock.SessionTTL)

	// Expired leases are stealable on acquire; the purge just keeps the table
	// small.
	watcher := watch.NewWatcher(time.Second)
	watcher.Add("purge-expired-locks", cfg.Lock.SessionTTL, func(ctx context.Context) error {
		return locks.PurgeExpired(ctx)
	})
	watcher.Start()
	defer watcher.Stop()

	router := appHTTP.NewLockRouter(cfg.App.Env, appHTTP.NewLockHandler(locks))

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Lock service listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
