package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/catalog"
	catalogservice "github.com/jjhbk/Devrang/internal/domain/catalog/service"
	"github.com/jjhbk/Devrang/internal/domain/operator"
	operatorservice "github.com/jjhbk/Devrang/internal/domain/operator/service"
	"github.com/jjhbk/Devrang/internal/pkg/config"
	"github.com/jjhbk/Devrang/internal/pkg/loginguard"
	"github.com/jjhbk/Devrang/internal/pkg/registry"
	"github.com/jjhbk/Devrang/pkg/database"
)

func main() {
	name := flag.String("name", "", "operator name")
	email := flag.String("email", "", "operator email")
	password := flag.String("password", "", "operator password (min 8 chars)")
	phone := flag.String("phone", "", "operator phone")
	products := flag.String("products", "", "optional JSON file with an array of products to import")
	flag.Parse()

	if *email == "" && *products == "" {
		flag.Usage()
		os.Exit(2)
	}

	config.LoadConfig()
	cfg := &config.GlobalConfig

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mctx := &registry.ModuleContext{Config: cfg}
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.InitPostgres(cfg.Database, false)
		if err != nil {
			log.Fatalf("Connect postgres: %v", err)
		}
		mctx.DB = db
	default:
		client, db, err := database.InitMongo(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Connect mongo: %v", err)
		}
		defer client.Disconnect(context.Background())
		mctx.Mongo = db
	}

	if *email != "" {
		svc := operatorservice.NewOperatorService(operator.NewRepository(mctx), loginguard.NewMemoryGuard(loginguard.DefaultMaxFailures, loginguard.DefaultWindow), cfg.IsAdmin)
		op, err := svc.Create(ctx, operatorservice.CreateInput{
			Name:     *name,
			Email:    *email,
			Password: *password,
			Phone:    *phone,
		})
		switch {
		case errors.Is(err, operatorservice.ErrOperatorExists):
			log.Printf("Operator %s already exists", *email)
		case err != nil:
			log.Fatalf("Create operator: %v", err)
		default:
			log.Printf("Operator %s created (id %s, admin %v)", op.Email, op.ID, cfg.IsAdmin(op.Email))
		}
	}

	if *products != "" {
		raw, err := os.ReadFile(*products)
		if err != nil {
			log.Fatalf("Read products: %v", err)
		}
		var inputs []catalogservice.ProductInput
		if err := json.Unmarshal(raw, &inputs); err != nil {
			log.Fatalf("Parse products: %v", err)
		}
		svc := catalogservice.NewCatalogService(catalog.NewRepository(mctx))
		for _, in := range inputs {
			if _, err := svc.Create(ctx, in); err != nil {
				log.Fatalf("Create product %q: %v", in.Name, err)
			}
		}
		log.Printf("Imported %d products", len(inputs))
	}
}
