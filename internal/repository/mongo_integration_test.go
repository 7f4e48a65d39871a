package repository

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/spockey4711/trainingbuilder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupTestDB spins up a fresh MongoDB container and returns the database
// connection along with a cleanup function.
func setupTestDB(t *testing.T) (*mongo.Database, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in -short mode")
	}
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	endpoint, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	return client.Database("trainingbuilder_test"), func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongo: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	}
}

func date(value string) time.Time {
	t, err := domain.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMongoRepositories(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("workouts insert many and list in order", func(t *testing.T) {
		repo := NewMongoWorkoutRepository(db)
		tss := 80.0
		batch := []*domain.Workout{
			{Sport: domain.SportRun, Date: date("2025-03-05"), WorkoutTime: "18:00", Duration: 45, Planned: true},
			{Sport: domain.SportBike, Date: date("2025-03-03"), Duration: 90, Metrics: domain.WorkoutMetrics{TSS: &tss}, CycleID: "c1"},
			{Sport: domain.SportSwim, Date: date("2025-03-05"), WorkoutTime: "06:30", Duration: 30},
		}

		n, err := repo.InsertMany(ctx, "athlete-1", batch)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		for _, w := range batch {
			assert.NotEmpty(t, w.ID)
			assert.Equal(t, "athlete-1", w.UserID)
		}

		start := date("2025-03-04")
		ranged, err := repo.ListByUser(ctx, "athlete-1", domain.DateRange{Start: &start})
		require.NoError(t, err)
		require.Len(t, ranged, 2)
		assert.Equal(t, "06:30", ranged[0].WorkoutTime)

		recent, err := repo.ListRecent(ctx, "athlete-1", 50)
		require.NoError(t, err)
		require.Len(t, recent, 3)
		assert.Equal(t, "18:00", recent[0].WorkoutTime)
		assert.Equal(t, domain.SportBike, recent[2].Sport)
		require.NotNil(t, recent[2].Metrics.TSS)

		byCycle, err := repo.ListByCycle(ctx, "athlete-1", "c1")
		require.NoError(t, err)
		assert.Len(t, byCycle, 1)

		_, err = repo.GetByID(ctx, "athlete-2", batch[0].ID)
		assert.ErrorIs(t, err, domain.ErrWorkoutNotFound, "other athletes cannot read the workout")

		require.NoError(t, repo.Delete(ctx, "athlete-1", batch[0].ID))
		assert.ErrorIs(t, repo.Delete(ctx, "athlete-1", batch[0].ID), domain.ErrWorkoutNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "athlete-1", "not-an-id"), domain.ErrInvalidID)
	})

	t.Run("notes search and tags", func(t *testing.T) {
		repo := NewMongoNoteRepository(db)
		require.NoError(t, repo.Create(ctx, &domain.WorkoutNote{UserID: "athlete-1", WorkoutID: "w1", Feeling: "Legs felt HEAVY", Tags: []string{"fatigue", "hills"}}))
		require.NoError(t, repo.Create(ctx, &domain.WorkoutNote{UserID: "athlete-1", WorkoutID: "w2", MentalNotes: "calm and focused", Tags: []string{"race"}}))
		require.NoError(t, repo.Create(ctx, &domain.WorkoutNote{UserID: "athlete-2", WorkoutID: "w3", Feeling: "heavy", Tags: []string{"other"}}))

		hits, err := repo.Search(ctx, "athlete-1", "heavy")
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "w1", hits[0].WorkoutID)

		hits, err = repo.Search(ctx, "athlete-1", "(")
		require.NoError(t, err, "query is matched literally")
		assert.Empty(t, hits)

		all, err := repo.Search(ctx, "athlete-1", "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		tags, err := repo.DistinctTags(ctx, "athlete-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"fatigue", "hills", "race"}, tags)

		byWorkout, err := repo.GetByWorkoutIDs(ctx, "athlete-1", []string{"w1", "w3"})
		require.NoError(t, err)
		assert.Len(t, byWorkout, 1)

		require.NoError(t, repo.DeleteByWorkoutID(ctx, "athlete-1", "w1"))
	})

	t.Run("cycles active lookup", func(t *testing.T) {
		repo := NewMongoCycleRepository(db)
		older := &domain.TrainingCycle{UserID: "athlete-1", Type: domain.CycleMeso, Name: "Base", Phase: domain.PhaseBase, StartDate: date("2025-03-01"), EndDate: date("2025-03-31")}
		require.NoError(t, repo.Create(ctx, older))
		time.Sleep(5 * time.Millisecond)
		newer := &domain.TrainingCycle{UserID: "athlete-1", Type: domain.CycleMeso, Name: "Build", Phase: domain.PhaseBuild, StartDate: date("2025-03-10"), EndDate: date("2025-03-20")}
		require.NoError(t, repo.Create(ctx, newer))

		active, err := repo.GetActive(ctx, "athlete-1", domain.CycleMeso, date("2025-03-15"))
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, "Build", active.Name)

		active, err = repo.GetActive(ctx, "athlete-1", domain.CycleMeso, date("2025-03-31"))
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, "Base", active.Name, "end date is inclusive")

		active, err = repo.GetActive(ctx, "athlete-1", domain.CycleMacro, date("2025-03-15"))
		require.NoError(t, err)
		assert.Nil(t, active)

		listed, err := repo.List(ctx, "athlete-1", "")
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "Build", listed[0].Name)
	})

	t.Run("metrics upsert one per day", func(t *testing.T) {
		repo := NewMongoMetricRepository(db)
		hrv, readiness := 55, 7
		first := &domain.Metric{UserID: "athlete-1", Date: date("2025-03-05"), HRV: &hrv, Readiness: &readiness}
		require.NoError(t, repo.Upsert(ctx, first))
		require.NotEmpty(t, first.ID)

		hrv2 := 61
		second := &domain.Metric{UserID: "athlete-1", Date: time.Date(2025, 3, 5, 21, 0, 0, 0, time.UTC), HRV: &hrv2}
		require.NoError(t, repo.Upsert(ctx, second))
		assert.Equal(t, first.ID, second.ID)
		assert.Nil(t, second.Readiness, "absent fields are cleared")

		got, err := repo.GetByDate(ctx, "athlete-1", date("2025-03-05"))
		require.NoError(t, err)
		assert.Equal(t, 61, *got.HRV)

		_, err = repo.GetByDate(ctx, "athlete-1", date("2025-03-06"))
		assert.ErrorIs(t, err, domain.ErrMetricNotFound)

		recent, err := repo.ListRecent(ctx, "athlete-1", 30)
		require.NoError(t, err)
		assert.Len(t, recent, 1)
	})

	t.Run("plans are scoped to their owner", func(t *testing.T) {
		repo := NewMongoPlanRepository(db)
		plan := &domain.TrainingPlan{UserID: "athlete-1", Name: "Sprint tri", Structure: []domain.WeeklyStructure{domain.NewRestWeek(1)}}
		require.NoError(t, repo.Create(ctx, plan))

		got, err := repo.GetByID(ctx, "athlete-1", plan.ID)
		require.NoError(t, err)
		assert.Len(t, got.Structure[0].Days, 7)

		_, err = repo.GetByID(ctx, "athlete-2", plan.ID)
		assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	})

	t.Run("users link firebase uid", func(t *testing.T) {
		repo := NewMongoUserRepository(db)
		user := &domain.User{Email: "ada@example.com", Name: "Ada"}
		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, repo.UpdateFirebaseUID(ctx, user.ID, "fb-ada"))

		got, err := repo.GetByFirebaseUID(ctx, "fb-ada")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "Ada", got.Name)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
