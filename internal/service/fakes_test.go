package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/spockey4711/trainingbuilder/internal/domain"
)

var errStoreDown = errors.New("connection refused")

// memWorkoutRepo is an in-memory domain.WorkoutRepository
type memWorkoutRepo struct {
	mu        sync.Mutex
	seq       int
	workouts  []*domain.Workout
	insertErr error
	// insertLimit > 0 makes InsertMany fail after that many rows
	insertLimit int
	listErr     error
}

func (r *memWorkoutRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("w%d", r.seq)
}

func (r *memWorkoutRepo) Create(ctx context.Context, w *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = r.nextID()
	r.workouts = append(r.workouts, w)
	return nil
}

func (r *memWorkoutRepo) InsertMany(ctx context.Context, userID string, workouts []*domain.Workout) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil && r.insertLimit == 0 {
		return 0, r.insertErr
	}
	for i, w := range workouts {
		if r.insertLimit > 0 && i == r.insertLimit {
			return i, r.insertErr
		}
		w.ID = r.nextID()
		w.UserID = userID
		r.workouts = append(r.workouts, w)
	}
	return len(workouts), nil
}

func (r *memWorkoutRepo) GetByID(ctx context.Context, userID, id string) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.workouts {
		if w.ID == id && w.UserID == userID {
			return w, nil
		}
	}
	return nil, domain.ErrWorkoutNotFound
}

func (r *memWorkoutRepo) GetByIDs(ctx context.Context, userID string, ids []string) (map[string]*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.Workout)
	for _, id := range ids {
		for _, w := range r.workouts {
			if w.ID == id && w.UserID == userID {
				out[id] = w
			}
		}
	}
	return out, nil
}

func (r *memWorkoutRepo) ListByUser(ctx context.Context, userID string, dateRange domain.DateRange) ([]*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Workout
	for _, w := range r.workouts {
		if w.UserID == userID && dateRange.Contains(w.Date) {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memWorkoutRepo) ListByCycle(ctx context.Context, userID, cycleID string) ([]*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Workout
	for _, w := range r.workouts {
		if w.UserID == userID && w.CycleID == cycleID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *memWorkoutRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Workout
	for _, w := range r.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memWorkoutRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.workouts {
		if w.ID == id && w.UserID == userID {
			r.workouts = append(r.workouts[:i], r.workouts[i+1:]...)
			return nil
		}
	}
	return domain.ErrWorkoutNotFound
}

type memNoteRepo struct {
	notes []*domain.WorkoutNote
}

func (r *memNoteRepo) Create(ctx context.Context, n *domain.WorkoutNote) error {
	n.ID = fmt.Sprintf("n%d", len(r.notes)+1)
	r.notes = append(r.notes, n)
	return nil
}

func (r *memNoteRepo) GetByWorkoutIDs(ctx context.Context, userID string, ids []string) (map[string]*domain.WorkoutNote, error) {
	out := make(map[string]*domain.WorkoutNote)
	for _, n := range r.notes {
		for _, id := range ids {
			if n.UserID == userID && n.WorkoutID == id {
				out[id] = n
			}
		}
	}
	return out, nil
}

// Search matches the query against feeling only; enough to drive the service filters
func (r *memNoteRepo) Search(ctx context.Context, userID, query string) ([]*domain.WorkoutNote, error) {
	var out []*domain.WorkoutNote
	for _, n := range r.notes {
		if n.UserID == userID && (query == "" || containsFold(n.Feeling, query)) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memNoteRepo) DistinctTags(ctx context.Context, userID string) ([]string, error) {
	seen := map[string]bool{}
	var tags []string
	for _, n := range r.notes {
		for _, t := range n.Tags {
			if n.UserID == userID && !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (r *memNoteRepo) DeleteByWorkoutID(ctx context.Context, userID, workoutID string) error {
	for i, n := range r.notes {
		if n.UserID == userID && n.WorkoutID == workoutID {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return nil
}

type memCycleRepo struct {
	cycles []*domain.TrainingCycle
	err    error
}

func (r *memCycleRepo) Create(ctx context.Context, c *domain.TrainingCycle) error {
	c.ID = fmt.Sprintf("c%d", len(r.cycles)+1)
	r.cycles = append(r.cycles, c)
	return nil
}

func (r *memCycleRepo) GetByID(ctx context.Context, userID, id string) (*domain.TrainingCycle, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.cycles {
		if c.ID == id && c.UserID == userID {
			return c, nil
		}
	}
	return nil, domain.ErrCycleNotFound
}

func (r *memCycleRepo) List(ctx context.Context, userID string, cycleType domain.CycleType) ([]*domain.TrainingCycle, error) {
	var out []*domain.TrainingCycle
	for _, c := range r.cycles {
		if c.UserID == userID && (cycleType == "" || c.Type == cycleType) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCycleRepo) GetActive(ctx context.Context, userID string, cycleType domain.CycleType, day time.Time) (*domain.TrainingCycle, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.cycles {
		if c.UserID == userID && c.Type == cycleType && c.IsActiveOn(day) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCycleRepo) Delete(ctx context.Context, userID, id string) error {
	for i, c := range r.cycles {
		if c.ID == id && c.UserID == userID {
			r.cycles = append(r.cycles[:i], r.cycles[i+1:]...)
			return nil
		}
	}
	return domain.ErrCycleNotFound
}

type memPlanRepo struct {
	plans []*domain.TrainingPlan
}

func (r *memPlanRepo) Create(ctx context.Context, p *domain.TrainingPlan) error {
	p.ID = fmt.Sprintf("p%d", len(r.plans)+1)
	r.plans = append(r.plans, p)
	return nil
}

func (r *memPlanRepo) GetByID(ctx context.Context, userID, id string) (*domain.TrainingPlan, error) {
	for _, p := range r.plans {
		if p.ID == id && p.UserID == userID {
			return p, nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

func (r *memPlanRepo) List(ctx context.Context, userID string) ([]*domain.TrainingPlan, error) {
	var out []*domain.TrainingPlan
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPlanRepo) Delete(ctx context.Context, userID, id string) error {
	for i, p := range r.plans {
		if p.ID == id && p.UserID == userID {
			r.plans = append(r.plans[:i], r.plans[i+1:]...)
			return nil
		}
	}
	return domain.ErrPlanNotFound
}

type memMetricRepo struct {
	metrics []*domain.Metric
	err     error
}

func (r *memMetricRepo) Upsert(ctx context.Context, m *domain.Metric) error {
	if r.err != nil {
		return r.err
	}
	for i, existing := range r.metrics {
		if existing.UserID == m.UserID && domain.DateKey(existing.Date) == domain.DateKey(m.Date) {
			m.ID = existing.ID
			r.metrics[i] = m
			return nil
		}
	}
	m.ID = fmt.Sprintf("m%d", len(r.metrics)+1)
	r.metrics = append(r.metrics, m)
	return nil
}

func (r *memMetricRepo) GetByDate(ctx context.Context, userID string, day time.Time) (*domain.Metric, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, m := range r.metrics {
		if m.UserID == userID && domain.DateKey(m.Date) == domain.DateKey(day) {
			return m, nil
		}
	}
	return nil, domain.ErrMetricNotFound
}

func (r *memMetricRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Metric, error) {
	var out []*domain.Metric
	for _, m := range r.metrics {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMetricRepo) Delete(ctx context.Context, userID, id string) error {
	for i, m := range r.metrics {
		if m.ID == id && m.UserID == userID {
			r.metrics = append(r.metrics[:i], r.metrics[i+1:]...)
			return nil
		}
	}
	return domain.ErrMetricNotFound
}

// memCache is an in-memory domain.CacheRepository that counts invalidations
type memCache struct {
	mu          sync.Mutex
	dashboards  map[string]*domain.DashboardStats
	loads       map[string]*domain.TrainingLoadMetrics
	invalidated int
	invalidErr  error
}

func newMemCache() *memCache {
	return &memCache{
		dashboards: map[string]*domain.DashboardStats{},
		loads:      map[string]*domain.TrainingLoadMetrics{},
	}
}

func (c *memCache) GetDashboard(ctx context.Context, userID string, day time.Time) (*domain.DashboardStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.dashboards[userID+domain.DateKey(day)]
	return s, ok, nil
}

func (c *memCache) SetDashboard(ctx context.Context, userID string, day time.Time, stats *domain.DashboardStats, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dashboards[userID+domain.DateKey(day)] = stats
	return nil
}

func (c *memCache) GetTrainingLoad(ctx context.Context, userID string, day time.Time, windowDays int) (*domain.TrainingLoadMetrics, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.loads[fmt.Sprintf("%s%s%d", userID, domain.DateKey(day), windowDays)]
	return m, ok, nil
}

func (c *memCache) SetTrainingLoad(ctx context.Context, userID string, day time.Time, windowDays int, metrics *domain.TrainingLoadMetrics, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads[fmt.Sprintf("%s%s%d", userID, domain.DateKey(day), windowDays)] = metrics
	return nil
}

func (c *memCache) InvalidateUser(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.dashboards = map[string]*domain.DashboardStats{}
	c.loads = map[string]*domain.TrainingLoadMetrics{}
	return c.invalidErr
}

type memUserRepo struct {
	users []*domain.User
}

func (r *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = fmt.Sprintf("u%d", len(r.users)+1)
	r.users = append(r.users, u)
	return nil
}

func (r *memUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *memUserRepo) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.FirebaseUID == uid })
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *memUserRepo) UpdateFirebaseUID(ctx context.Context, userID, firebaseUID string) error {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.FirebaseUID = firebaseUID
	return nil
}

// mockAuthClient resolves ID tokens from a fixed table
type mockAuthClient struct {
	tokens map[string]*auth.Token
}

func (m *mockAuthClient) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if t, ok := m.tokens[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("token signature invalid")
}

type memFiles struct {
	uploads map[string][]byte
	err     error
}

func (f *memFiles) Upload(ctx context.Context, file []byte, filename, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[filename] = file
	return "http://storage.local/bucket/" + filename, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
