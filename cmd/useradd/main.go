package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/untapfree/untap-server-go/internal/auth"
	"github.com/untapfree/untap-server-go/internal/config"
	"github.com/untapfree/untap-server-go/internal/repository"
	"go.uber.org/zap"
)

// useradd provisions a user account for servers running with the postgres
// driver. Credentials are checked at login against the users table, so this
// is the admission path for new players.
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	name := flag.String("name", "", "username to create")
	password := flag.String("password", "", "password for the new user")
	flag.Parse()

	if *name == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: useradd -name <username> -password <password> [-config <path>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != "postgres" {
		fmt.Fprintln(os.Stderr, "useradd requires database.driver: postgres; the memory driver accepts any credentials")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := repository.NewDB(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	if err := repository.NewUserRepository(db).CreateUser(ctx, *name, hash); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created user %q\n", *name)
}
