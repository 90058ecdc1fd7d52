package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"cpms.org/internal/auth"
	"cpms.org/internal/config"
	"cpms.org/internal/ids"
	"cpms.org/internal/migrate"
	"cpms.org/internal/store/pg"
)

func main() {
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var (
		dsn            = flag.String("dsn", cfg.PGDSN, "PostgreSQL DSN")
		migrationsPath = flag.String("migrations", cfg.MigrationsDir, "Path to SQL migrations")
		seedsPath      = flag.String("seeds", cfg.SeedsDir, "Path to SQL seeds")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or CPMS_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|seed|status|bootstrap]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	mgr := migrate.NewManager(db, *migrationsPath, *seedsPath)

	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		err = mgr.Seed(ctx)
	case "status":
		var history []string
		history, err = mgr.Status(ctx)
		if err == nil {
			for _, item := range history {
				fmt.Println(item)
			}
		}
	case "bootstrap":
		err = bootstrapSuperuser(ctx, db, cfg)
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}

// bootstrapSuperuser creates the initial superuser account from the
// environment. Reruns are no-ops once the account exists.
func bootstrapSuperuser(ctx context.Context, db *sql.DB, cfg config.Config) error {
	if cfg.SuperuserEmail == "" || cfg.SuperuserPassword == "" {
		return errors.New("set CPMS_SUPERUSER_EMAIL and CPMS_SUPERUSER_PASSWORD")
	}
	store := pg.NewWithDB(db)
	if _, err := store.Users.FindByEmail(ctx, cfg.SuperuserEmail); err == nil {
		log.Printf("superuser %s already exists", cfg.SuperuserEmail)
		return nil
	} else if !errors.Is(err, auth.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.SuperuserPassword)
	if err != nil {
		return err
	}
	user := auth.User{
		ID:           ids.New(),
		FirstName:    "Super",
		LastName:     "Admin",
		Email:        cfg.SuperuserEmail,
		PasswordHash: hash,
		Role:         auth.RoleSuperuser,
		Access:       []string{},
		Status:       auth.StatusActive,
		Approved:     true,
	}
	if err := store.Users.Create(ctx, &user); err != nil {
		return err
	}
	log.Printf("superuser %s created", cfg.SuperuserEmail)
	return nil
}
