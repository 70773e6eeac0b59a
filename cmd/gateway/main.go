package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/peoplemesh/hrops-console-go/internal/config"
	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	appHTTP "github.com/peoplemesh/hrops-console-go/internal/handler/http"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/hrapi"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/jwt"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/lockclient"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/session"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/sse"
	"github.com/peoplemesh/hrops-console-go/internal/pkg/watch"
	editlockService "github.com/peoplemesh/hrops-console-go/internal/service/editlock"
	leaveService "github.com/peoplemesh/hrops-console-go/internal/service/leave"
	reportService "github.com/peoplemesh/hrops-console-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	sess := session.New(cfg.HRAPI.Token)
	hrClient := hrapi.New(cfg.HRAPI.BaseURL, sess)
	lockClient := lockclient.New(cfg.Lock.BaseURL, sess)

	registry := editlockService.NewRegistry(lockClient, cfg.Lock.SessionTTL)
	approvals := leaveService.NewApprovalService(hrClient)
	requests := leaveService.NewRequestService(
		hrClient,
		hrClient,
		leaveService.NewDayCalculator(),
		registry,
		cfg.HRAPI.State,
		cfg.HRAPI.Country,
	)
	reports := reportService.NewService(hrClient)

	hub := sse.NewHub()
	watcher := watch.NewWatcher(cfg.Watch.Cooldown)
	watcher.Add(sse.TopicLeaveRequests, cfg.Watch.Interval, func(ctx context.Context) error {
		if _, err := requests.List(ctx, leave.RequestFilter{Status: leave.StatusPending}); err != nil {
			return err
		}
		hub.Publish(sse.TopicLeaveRequests, sse.Event{Event: "refresh"})
		return nil
	})
	watcher.Add("edit-sessions", cfg.Lock.SessionTTL/2, func(ctx context.Context) error {
		return registry.Sweep(ctx)
	})
	watcher.Start()
	defer watcher.Stop()
	defer registry.CloseAll(context.Background())

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	leaveHandler := appHTTP.NewLeaveHandler(approvals, requests, hub)
	eventsHandler := appHTTP.NewEventsHandler(hub, watcher, jwtService)
	reportHandler := appHTTP.NewReportHandler(reports)

	router := appHTTP.NewRouter(cfg.App.Env, jwtService, leaveHandler, eventsHandler, reportHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Gateway listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
