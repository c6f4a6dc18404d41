package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/lac-hong-legacy/salita_api/dto"
	"github.com/lac-hong-legacy/salita_api/services"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	var (
		userID   = flag.String("user", "demo-user", "Identity provider subject of the demo user")
		name     = flag.String("name", "Demo Learner", "Display name of the demo user")
		email    = flag.String("email", "demo@salita.local", "Email of the demo user")
		sessions = flag.Int("sessions", 1, "Number of finished practice sessions to create")
		token    = flag.Bool("token", false, "Print a development access token for the demo user")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := services.ConnectDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Shutdown()

	ctx := context.Background()
	identity := dto.Identity{UserID: *userID, Name: *name, Email: *email}

	users := services.NewUserService(db.Users(), nil)
	if _, err := users.EnsureUser(ctx, identity); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	schema, err := services.NewFeedbackSchema()
	if err != nil {
		log.Fatalf("Failed to compile feedback schema: %v", err)
	}

	practice := services.NewPracticeService(services.PracticeDeps{
		Sessions:  db.Sessions(),
		Feedback:  db.Feedback(),
		Users:     db.Users(),
		Usage:     services.NewUsageService(db.Sessions(), services.DefaultDailyLimitSeconds*100, time.UTC),
		Generator: services.NewStaticFeedbackGenerator(services.DefaultMockFeedback()),
		Schema:    schema,
	})

	for i := 0; i < *sessions; i++ {
		if err := seedSession(ctx, practice, identity.UserID); err != nil {
			log.Fatalf("Failed to seed session: %v", err)
		}
	}
	log.WithFields(log.Fields{"user_id": identity.UserID, "sessions": *sessions}).Info("Seeding completed")

	if *token {
		jwtSvc := services.NewJWTService(services.Env("JWT_SECRET", "dev-secret"), 24*time.Hour)
		pair, err := jwtSvc.GenerateTokenPair(identity)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(pair.AccessToken)
	}
}

func seedSession(ctx context.Context, practice *services.PracticeService, userID string) error {
	mode := "conversation"
	scenario := "ordering_food"

	session, err := practice.StartSession(ctx, userID, dto.StartSessionRequest{Mode: &mode, Scenario: &scenario})
	if err != nil {
		return err
	}

	duration := 180
	_, err = practice.FinalizeSession(ctx, session.ID, userID, dto.FinalizeSessionRequest{
		DurationSeconds: &duration,
		Transcript: []dto.TranscriptTurnRequest{
			{Speaker: "ai", Text: "Magandang umaga! Ano ang gusto mong orderin?"},
			{Speaker: "user", Text: "Gusto ko isang kape, please."},
			{Speaker: "ai", Text: "Mainit o malamig?"},
			{Speaker: "user", Text: "Malamig po. Magkano ito?"},
		},
	})
	return err
}

func showHelp() {
	fmt.Println(`
Seeding Tool for Salita API

Usage: go run ./seed [flags]

Flags:
  -user string      Demo user subject (default "demo-user")
  -name string      Demo user display name
  -email string     Demo user email
  -sessions int     Finished practice sessions to create (default 1)
  -token            Print a development access token signed with JWT_SECRET
  -help             Show this help message

Environment Variables:
  DB_DRIVER   - postgres or sqlite (default postgres)
  DB_DATABASE - sqlite file path (default salita.db)
  JWT_SECRET  - signing secret for -token (default dev-secret)`)
}
