package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"finance-tracker/internal/app"
	"finance-tracker/internal/config"
	"finance-tracker/internal/service"
)

type openStoresFunc func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app.Stores, error)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, app.OpenStores); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, open openStoresFunc) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Email")
	name := fs.String("name", "", "Display name")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	language := fs.String("language", "", "Preferred language (default en)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *name == "" {
		fmt.Fprintln(stdout, "Usage: adduser -email <email> -name <name> [-password <password>] [-language <lang>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: email, name")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.StorageBackend == config.StorageBackendMemory {
		return fmt.Errorf("storage backend %q does not persist users; set STORAGE_BACKEND=postgres", cfg.StorageBackend)
	}
	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	stores, err := open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer stores.Close()

	users := service.NewUserService(logger, stores.Users, service.NewBcryptHasher(0), nil)
	user, err := users.Register(ctx, service.RegisterInput{
		Email:    *email,
		Name:     *name,
		Password: password,
		Language: *language,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return fmt.Errorf("user %s already exists", *email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// stdin no interactivo (tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
