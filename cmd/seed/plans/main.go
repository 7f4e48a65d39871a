package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/config"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/repository"
	"github.com/spockey4711/trainingbuilder/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func minutes(n int) *int { return &n }

func km(n float64) *float64 { return &n }

func session(sport domain.SportType, kind string, duration int, intensity, at string) domain.WorkoutPlan {
	return domain.WorkoutPlan{
		Sport:          sport,
		WorkoutType:    kind,
		TargetDuration: minutes(duration),
		Intensity:      intensity,
		TimeOfDay:      at,
	}
}

func day(n int, workouts ...domain.WorkoutPlan) domain.DayPlan {
	return domain.DayPlan{Day: n, Workouts: workouts}
}

// starterPlans are the templates a new athlete gets to copy from
func starterPlans() []*domain.TrainingPlan {
	longRun := session(domain.SportRun, "long run", 90, "easy", "08:00")
	longRun.TargetDistance = km(16)

	return []*domain.TrainingPlan{
		{
			Name:        "Triathlon Base Week",
			Description: "Aerobic base across swim, bike and run with one strength session",
			Structure: []domain.WeeklyStructure{{
				Days: []domain.DayPlan{
					day(1, session(domain.SportSwim, "technique", 45, "easy", "06:30")),
					day(2, session(domain.SportBike, "endurance", 75, "moderate", "18:00")),
					day(3, session(domain.SportRun, "easy run", 45, "easy", "07:00"), session(domain.SportGym, "strength", 40, "moderate", "18:30")),
					day(4, session(domain.SportSwim, "aerobic", 50, "moderate", "06:30")),
					day(5),
					day(6, session(domain.SportBike, "long ride", 150, "easy", "08:00")),
					day(7, longRun),
				},
			}},
		},
		{
			Name:        "Hockey In-Season Week",
			Description: "Two games, one practice and maintenance strength",
			Structure: []domain.WeeklyStructure{{
				Days: []domain.DayPlan{
					day(1, session(domain.SportGym, "strength", 45, "moderate", "17:00")),
					day(2, session(domain.SportHockey, "practice", 90, "hard", "19:00")),
					day(3, session(domain.SportBike, "recovery spin", 30, "easy", "")),
					day(4, session(domain.SportGym, "power", 40, "hard", "17:00")),
					day(5, session(domain.SportHockey, "game", 60, "hard", "20:00")),
					day(6),
					day(7, session(domain.SportHockey, "game", 60, "hard", "16:00")),
				},
			}},
		},
		{
			Name:        "Recovery Week",
			Description: "Reduced volume, everything easy",
			Structure: []domain.WeeklyStructure{{
				Days: []domain.DayPlan{
					day(1),
					day(2, session(domain.SportSwim, "easy swim", 30, "easy", "")),
					day(3),
					day(4, session(domain.SportRun, "easy run", 30, "easy", "")),
					day(5),
					day(6, session(domain.SportBike, "easy ride", 60, "easy", "")),
					day(7),
				},
			}},
		},
	}
}

func main() {
	cfg := config.FromEnv()

	userID := flag.String("user", "", "Athlete user ID that owns the seeded plans (required)")
	flag.Parse()
	if *userID == "" {
		fmt.Println("Usage: seed/plans -user <USER_ID>")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		logrus.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	planService := service.NewPlanService(
		repository.NewMongoPlanRepository(db),
		repository.NewMongoWorkoutRepository(db),
		repository.NewMongoCycleRepository(db),
		nil,
	)

	existing, err := planService.ListPlans(ctx, *userID)
	if err != nil {
		logrus.Fatalf("failed to list plans: %v", err)
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Name] = true
	}

	for _, plan := range starterPlans() {
		if have[plan.Name] {
			fmt.Printf("Skipping %s, already exists\n", plan.Name)
			continue
		}
		created, err := planService.CreatePlan(ctx, *userID, plan)
		if err != nil {
			logrus.WithError(err).WithField("plan", plan.Name).Error("failed to create plan")
			continue
		}
		fmt.Printf("Created plan: %s (%s)\n", created.Name, created.ID)
	}
}
