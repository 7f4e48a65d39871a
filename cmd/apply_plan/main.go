package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/config"
	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/spockey4711/trainingbuilder/internal/repository"
	"github.com/spockey4711/trainingbuilder/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.FromEnv()

	userID := flag.String("user", "", "Athlete user ID (required)")
	planID := flag.String("plan", "", "Training plan ID (required)")
	week := flag.String("week", "", "Monday the plan's first week lands on, YYYY-MM-DD (required)")
	cycleID := flag.String("cycle", "", "Cycle ID to attach the workouts to, overriding the plan's cycle")
	mongoURI := flag.String("mongo", cfg.MongoDB.URI, "MongoDB connection URI")
	dbName := flag.String("db", cfg.MongoDB.Database, "Database name")
	redisAddr := flag.String("redis", cfg.Redis.Addr, "Redis address for cache invalidation, empty to skip")
	dryRun := flag.Bool("dry-run", false, "Print the workouts that would be created without writing them")
	flag.Parse()

	if *userID == "" || *planID == "" || *week == "" {
		fmt.Println("Usage: apply_plan -user <USER_ID> -plan <PLAN_ID> -week <YYYY-MM-DD> [-cycle <CYCLE_ID>] [-dry-run]")
		fmt.Println("\nMaterializes a training plan template into workouts starting at the given Monday.")
		os.Exit(1)
	}

	weekStart, err := domain.ParseDate(*week)
	if err != nil {
		logrus.Fatalf("invalid -week %q: %v", *week, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		logrus.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(*dbName)

	var cache domain.CacheRepository
	var planRepo domain.PlanRepository = repository.NewMongoPlanRepository(db)
	if *redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: *redisAddr, Password: cfg.Redis.Password})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).Warn("redis unavailable, cached dashboards will expire on their own")
		} else {
			redisCache := repository.NewRedisCacheRepository(redisClient)
			cache = redisCache
			planRepo = repository.NewCachedPlanRepository(planRepo, redisCache)
		}
	}

	planService := service.NewPlanService(
		planRepo,
		repository.NewMongoWorkoutRepository(db),
		repository.NewMongoCycleRepository(db),
		cache,
	)

	req := service.ApplyPlanRequest{WeekStart: weekStart, CycleID: *cycleID}
	var result *service.PlanApplication
	if *dryRun {
		result, err = planService.PreviewWeek(ctx, *userID, *planID, req)
	} else {
		result, err = planService.ApplyToWeek(ctx, *userID, *planID, req)
	}
	if err != nil {
		logrus.Fatalf("failed to apply plan: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logrus.Fatalf("failed to encode result: %v", err)
	}
	fmt.Println(string(out))

	if *dryRun {
		fmt.Printf("\n[DRY RUN] %d workouts would be created\n", len(result.Workouts))
		return
	}
	fmt.Printf("\ncreated %d workouts in batch %s\n", result.WorkoutsCreated, result.BatchID)
}
