package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"churchadmin/internal/config"
	"churchadmin/internal/credentials"
	"churchadmin/internal/database"
	"churchadmin/internal/logging"
	"churchadmin/internal/repository"
	"churchadmin/internal/service"
	"churchadmin/migrations"
)

func main() {
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	createUser := createCmd.String("username", "", "Admin username (required)")
	createPassword := createCmd.String("password", "", "Password (default: generated)")

	resetCmd := flag.NewFlagSet("reset-password", flag.ExitOnError)
	resetUser := resetCmd.String("username", "", "Admin username (required)")
	resetPassword := resetCmd.String("password", "", "New password (default: generated)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()
	if err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	ctx := context.Background()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := service.NewAuthService(repository.NewAdminRepository(db))

	switch os.Args[1] {
	case "create":
		createCmd.Parse(os.Args[2:])
		requireUsername(createCmd, *createUser)
		password := passwordOrGenerated(*createPassword)
		admin, err := authService.CreateAdmin(ctx, *createUser, password)
		if err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.WithField("admin_id", admin.ID).Info("Admin created")
		reportPassword(*createPassword, admin.Username, password)

	case "reset-password":
		resetCmd.Parse(os.Args[2:])
		requireUsername(resetCmd, *resetUser)
		password := passwordOrGenerated(*resetPassword)
		if err := authService.ResetPassword(ctx, *resetUser, password); err != nil {
			log.Fatalf("Failed to reset password: %v", err)
		}
		log.WithField("username", *resetUser).Info("Password reset")
		reportPassword(*resetPassword, *resetUser, password)

	default:
		printUsage()
		os.Exit(1)
	}
}

func requireUsername(cmd *flag.FlagSet, username string) {
	if username == "" {
		fmt.Println("Error: -username flag is required")
		cmd.PrintDefaults()
		os.Exit(1)
	}
}

func passwordOrGenerated(given string) string {
	if given != "" {
		return given
	}
	password, err := credentials.GeneratePassword(credentials.DefaultPasswordLength)
	if err != nil {
		log.Fatalf("Failed to generate password: %v", err)
	}
	return password
}

// reportPassword prints a generated password once; it is not stored anywhere
// in clear text.
func reportPassword(given, username, password string) {
	if given != "" {
		return
	}
	fmt.Printf("Username: %s\nPassword: %s\n", username, password)
}

func printUsage() {
	fmt.Println("Church Admin Account Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  admin create -username <name> [-password <password>]")
	fmt.Println("  admin reset-password -username <name> [-password <password>]")
	fmt.Println()
	fmt.Println("A password is generated and printed when -password is omitted.")
}
