package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/jjhbk/Devrang/pkg/loadtest"
	"github.com/jjhbk/Devrang/pkg/storefront"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base url")
	concurrency := flag.Int("c", 50, "concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "run time per scenario")
	email := flag.String("email", "", "operator email, enables authenticated scenarios")
	password := flag.String("password", "", "operator password")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := storefront.NewAPIClient(*baseURL, "")
	if err := client.Get(ctx, "/health", nil); err != nil {
		log.Fatalf("Server not reachable at %s: %v", *baseURL, err)
	}

	public := loadtest.NewRunner("public", *concurrency, *duration)
	public.AddRequest(func(ctx context.Context) error { return client.Get(ctx, "/health", nil) })
	public.Run(ctx).Print(os.Stdout)

	if *email == "" {
		return
	}
	if _, err := client.Login(ctx, *email, *password); err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	authed := loadtest.NewRunner("operator", *concurrency, *duration)
	authed.AddRequest(func(ctx context.Context) error { return client.Get(ctx, "/me", nil) })
	authed.AddRequest(func(ctx context.Context) error { return client.Get(ctx, "/products?page=1&limit=20", nil) })
	authed.AddRequest(func(ctx context.Context) error { return client.Get(ctx, "/customers", nil) })
	authed.AddRequest(func(ctx context.Context) error { return client.Get(ctx, "/orders", nil) })
	authed.Run(ctx).Print(os.Stdout)
}
