package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"hotel-pipeline/internal/config"
	"hotel-pipeline/internal/database"
	"hotel-pipeline/internal/handlers"
	"hotel-pipeline/internal/pipeline"
	"hotel-pipeline/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environment variables win
	_ = godotenv.Load()

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: failed to load config from %s: %v. Using defaults.", configPath, err)
		cfg = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Connection parameters come from config with environment overrides
	cfg.Database.Host = getEnvOrConfig(cfg.Database.Host, "POSTGRES_HOST", "localhost")
	cfg.Database.User = getEnvOrConfig(cfg.Database.User, "POSTGRES_USER", "hotel_user")
	cfg.Database.Password = getEnvOrConfig(cfg.Database.Password, "POSTGRES_PASSWORD", "hotel_pass")
	cfg.Database.Database = getEnvOrConfig(cfg.Database.Database, "POSTGRES_DB", "hotel_db")
	if port := os.Getenv("POSTGRES_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Database.Port = n
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println(" HOTEL DATA PIPELINE ")
	fmt.Println(strings.Repeat("=", 70) + "\n")

	fmt.Println("Checking database connection...")
	db, err := database.NewGormDB(cfg.Database)
	if err != nil {
		fmt.Println("\nERROR: cannot connect to PostgreSQL database")
		fmt.Println("Make sure the database is running: docker-compose up -d")
		log.Printf("connection error: %v", err)
		os.Exit(1)
	}
	defer db.Close()
	fmt.Println("Database connection successful!")

	p := pipeline.New(cfg, db)

	if len(os.Args) > 1 {
		runCommand(os.Args[1], cfg, p)
		return
	}

	runMenu(p)
}

// runCommand handles the non-interactive subcommands
func runCommand(cmd string, cfg *config.Config, p *pipeline.Pipeline) {
	switch cmd {
	case "serve":
		sched := scheduler.NewScheduler(p, cfg)
		if err := sched.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()

		router := handlers.Router(p)
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Printf("Admin server listening on %s", addr)
		if err := router.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "audit":
		if err := p.Audit(); err != nil {
			fmt.Printf("\nFAILED: quality audit found problems: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nSUCCESS: all existing data passed quality checks")

	default:
		fmt.Printf("Unknown command %q. Usage: pipeline [serve|audit]\n", cmd)
		os.Exit(1)
	}
}

// runMenu drives the interactive pipeline menu
func runMenu(p *pipeline.Pipeline) {
	fmt.Println("\n" + strings.Repeat("-", 70))
	fmt.Println("Select pipeline mode:")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Println("1. Historical Data Generation (run ONCE - generates 4 years of data)")
	fmt.Println("2. Weekly Data Generation (run WEEKLY - generates 7 days of data)")
	fmt.Println("3. Create Database Tables Only")
	fmt.Println("4. Exit")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Print("\nEnter your choice (1-4): ")

	reader := bufio.NewReader(os.Stdin)
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	switch choice {
	case "1":
		fmt.Println("\nRunning HISTORICAL data pipeline...")
		if err := p.CreateTables(); err != nil {
			fmt.Printf("\nFAILED: could not create tables: %v\n", err)
			os.Exit(1)
		}
		if err := p.RunHistorical(); err != nil {
			fmt.Printf("\nFAILED: historical pipeline encountered errors: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nSUCCESS: historical data loaded!")

	case "2":
		fmt.Println("\nRunning WEEKLY data pipeline...")
		if err := p.RunWeekly(); err != nil {
			fmt.Printf("\nFAILED: weekly pipeline encountered errors: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nSUCCESS: weekly data added!")

	case "3":
		fmt.Println("\nCreating database tables...")
		if err := p.CreateTables(); err != nil {
			fmt.Printf("\nFAILED: could not create tables: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nTables created successfully!")

	case "4":
		fmt.Println("\nExiting...")

	default:
		fmt.Println("\nInvalid choice. Please enter 1, 2, 3, or 4.")
		os.Exit(1)
	}
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig prefers the environment variable, then the config value,
// then the default.
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if configValue != "" {
		return configValue
	}
	return defaultValue
}
