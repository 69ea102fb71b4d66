package main

import (
	"context"
	"flag"
	"log"

	"drycleaning/internal/config"
	"drycleaning/internal/database"
	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/operator"
	"drycleaning/internal/pkg/jwt"
	"drycleaning/internal/pkg/logger"
	"drycleaning/internal/server"
)

func main() {
	login := flag.String("admin-login", "admin", "login of the first admin operator")
	password := flag.String("admin-password", "", "password of the first admin operator (skipped when empty)")
	name := flag.String("admin-name", "Адміністратор", "full name of the first admin operator")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db, server.Models()...); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	seed := catalog.DefaultSeed()
	if err := catalog.NewRepository(db).ApplySeed(ctx, seed); err != nil {
		log.Fatal("catalog seed failed:", err)
	}
	log.Printf("Catalog seeded: %d categories, %d price items, %d modifiers, %d stains, %d defects, %d risks",
		len(seed.Categories), len(seed.PriceItems), len(seed.Modifiers), len(seed.Stains), len(seed.Defects), len(seed.Risks))

	if *password == "" {
		log.Println("No -admin-password given, admin operator not created")
		return
	}
	operators := operator.NewService(db, jwt.New(cfg.JWTSecret, cfg.JWTTTL), lg)
	op, created, err := operators.EnsureAdmin(ctx, operator.CreateRequest{
		Login:      *login,
		Password:   *password,
		FullName:   *name,
		BranchCode: cfg.Branch.Code,
	})
	if err != nil {
		log.Fatal("admin seed failed:", err)
	}
	if created {
		log.Printf("Admin created: %s (id %d)", op.Login, op.ID)
	} else {
		log.Printf("Admin %s already exists", op.Login)
	}
}
