// Command feedtail prints the per-user change feed as it is published, so
// client developers can watch match and notification events locally.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"informatch/internal/cache"
	"informatch/internal/config"
	"informatch/internal/notifications"

	"github.com/google/uuid"
)

func main() {
	userFlag := flag.String("user", "", "Only show events for this user ID")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	flag.Parse()

	var only uuid.UUID
	if *userFlag != "" {
		id, err := uuid.Parse(*userFlag)
		if err != nil {
			log.Fatalf("Invalid -user: %v", err)
		}
		only = id
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	rdb := cache.InitRedis(cfg.RedisURL)
	if rdb == nil {
		log.Fatal("Redis is required to read the change feed")
	}
	defer func() { _ = rdb.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	var seen int64
	err = notifications.NewNotifier(rdb).StartPatternSubscriber(ctx, func(channel, payload string) {
		userID, ok := notifications.ParseUserChannel(channel)
		if !ok || (only != uuid.Nil && userID != only) {
			return
		}
		var ev notifications.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			log.Printf("⚠️  %s: unreadable payload: %v", userID, err)
			return
		}
		atomic.AddInt64(&seen, 1)
		body, _ := json.Marshal(ev.Payload)
		fmt.Printf("%s %s %-24s %s\n", time.Now().Format(time.TimeOnly), userID, ev.Type, body)
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	log.Println("👂 Listening for change events (Ctrl+C to stop)")
	<-ctx.Done()
	log.Printf("Stopped after %d events", atomic.LoadInt64(&seen))
}
