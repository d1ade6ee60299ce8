package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/provider/openfoodfacts"
	"glowupp/nutrition-api/internal/repository"
	"glowupp/nutrition-api/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.users[u.ID] = *u
	return u.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, p domain.BiometricProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Profile = &p
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) SetProfilePictureKey(_ context.Context, id primitive.ObjectID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ProfilePictureKey = key
	f.users[id] = u
	return nil
}

type fakePlanRepo struct {
	mu      sync.Mutex
	plans   map[primitive.ObjectID]domain.NutritionPlan
	upserts int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[primitive.ObjectID]domain.NutritionPlan)}
}

func (f *fakePlanRepo) Upsert(_ context.Context, p *domain.NutritionPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.plans[p.UserID] = *p
	return nil
}

func (f *fakePlanRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.NutritionPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type fakeWeightRepo struct {
	mu      sync.Mutex
	entries []domain.WeightEntry
}

func (f *fakeWeightRepo) Create(_ context.Context, e *domain.WeightEntry) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = primitive.NewObjectID()
	f.entries = append(f.entries, *e)
	return e.ID, nil
}

func (f *fakeWeightRepo) sorted(userID primitive.ObjectID) []domain.WeightEntry {
	var out []domain.WeightEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakeWeightRepo) Latest(_ context.Context, userID primitive.ObjectID) (*domain.WeightEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(userID)
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	return &all[0], nil
}

func (f *fakeWeightRepo) ListByUserID(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.WeightEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(userID)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeProgressRepo struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
	views  map[primitive.ObjectID]domain.Progress

	failSaves int // SaveView fails this many times before succeeding
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{views: make(map[primitive.ObjectID]domain.Progress)}
}

func (f *fakeProgressRepo) AppendEvent(_ context.Context, ev *domain.ProgressEvent) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev.ID = primitive.NewObjectID()
	f.events = append(f.events, *ev)
	return ev.ID, nil
}

func (f *fakeProgressRepo) ListEvents(_ context.Context, userID primitive.ObjectID) ([]domain.ProgressEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ProgressEvent
	for _, ev := range f.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) CountEvents(_ context.Context, userID primitive.ObjectID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.events {
		if ev.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProgressRepo) SaveView(_ context.Context, v *domain.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaves > 0 {
		f.failSaves--
		return errors.New("write conflict")
	}
	f.views[v.UserID] = *v
	return nil
}

func (f *fakeProgressRepo) GetView(_ context.Context, userID primitive.ObjectID) (*domain.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.views[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (f *fakeProgressRepo) kinds() []domain.ProgressEventKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ProgressEventKind, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Kind)
	}
	return out
}

type fakeSavedMealRepo struct {
	mu    sync.Mutex
	meals map[primitive.ObjectID]domain.SavedMeal
}

func newFakeSavedMealRepo() *fakeSavedMealRepo {
	return &fakeSavedMealRepo{meals: make(map[primitive.ObjectID]domain.SavedMeal)}
}

func (f *fakeSavedMealRepo) Create(_ context.Context, m *domain.SavedMeal) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	f.meals[m.ID] = *m
	return m.ID, nil
}

func (f *fakeSavedMealRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SavedMeal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (f *fakeSavedMealRepo) ListByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.SavedMeal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.SavedMeal{}
	for _, m := range f.meals {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeSavedMealRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meals[id]
	if !ok || m.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.meals, id)
	return nil
}

type fakeDailyLogRepo struct {
	mu   sync.Mutex
	logs map[string]domain.DailyLog
}

func newFakeDailyLogRepo() *fakeDailyLogRepo {
	return &fakeDailyLogRepo{logs: make(map[string]domain.DailyLog)}
}

func (f *fakeDailyLogRepo) Upsert(_ context.Context, l *domain.DailyLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[l.UserID.Hex()+"/"+l.Date] = *l
	return nil
}

func (f *fakeDailyLogRepo) Get(_ context.Context, userID primitive.ObjectID, day string) (*domain.DailyLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[userID.Hex()+"/"+day]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

type fakePictureRepo struct {
	mu   sync.Mutex
	pics []domain.ProfilePicture
}

func (f *fakePictureRepo) Create(_ context.Context, p *domain.ProfilePicture) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.UploadedAt = time.Now().UTC()
	f.pics = append(f.pics, *p)
	return p.ID, nil
}

func (f *fakePictureRepo) LatestByUserID(_ context.Context, userID primitive.ObjectID) (*domain.ProfilePicture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.pics) - 1; i >= 0; i-- {
		if f.pics[i].UserID == userID {
			p := f.pics[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]storage.ObjectInfo
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]storage.ObjectInfo)}
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/put/" + key, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/get/" + key, nil
}

func (f *fakeStorage) StatObject(_ context.Context, key string) (*storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &info, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeProducts struct {
	products map[string]openfoodfacts.Product
}

func (f *fakeProducts) LookupBarcode(_ context.Context, code string) (*openfoodfacts.Product, error) {
	if !openfoodfacts.ValidBarcode(code) {
		return nil, openfoodfacts.ErrInvalidBarcode
	}
	p, ok := f.products[code]
	if !ok {
		return nil, openfoodfacts.ErrProductNotFound
	}
	return &p, nil
}

type countingNotifier struct {
	mu sync.Mutex
	n  int
}

func (c *countingNotifier) Notify() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type fakeFollowRepo struct {
	mu      sync.Mutex
	follows []domain.Follow
	clock   time.Time
}

func (f *fakeFollowRepo) Create(_ context.Context, fl *domain.Follow) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.follows {
		if existing.FollowerID == fl.FollowerID && existing.FolloweeID == fl.FolloweeID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	f.clock = f.clock.Add(time.Minute)
	fl.ID = primitive.NewObjectID()
	fl.FollowedAt = f.clock
	f.follows = append(f.follows, *fl)
	return fl.ID, nil
}

func (f *fakeFollowRepo) Delete(_ context.Context, followerID, followeeID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.follows {
		if existing.FollowerID == followerID && existing.FolloweeID == followeeID {
			f.follows = append(f.follows[:i], f.follows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeFollowRepo) Exists(_ context.Context, followerID, followeeID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.follows {
		if existing.FollowerID == followerID && existing.FolloweeID == followeeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) CountFollowers(ctx context.Context, userID primitive.ObjectID) (int, error) {
	all, err := f.ListFollowers(ctx, userID, 0)
	return len(all), err
}

func (f *fakeFollowRepo) CountFollowing(ctx context.Context, userID primitive.ObjectID) (int, error) {
	all, err := f.ListFollowing(ctx, userID, 0)
	return len(all), err
}

func (f *fakeFollowRepo) ListFollowers(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.Follow, error) {
	return f.list(func(fl domain.Follow) bool { return fl.FolloweeID == userID }, limit), nil
}

func (f *fakeFollowRepo) ListFollowing(_ context.Context, userID primitive.ObjectID, limit int) ([]domain.Follow, error) {
	return f.list(func(fl domain.Follow) bool { return fl.FollowerID == userID }, limit), nil
}

func (f *fakeFollowRepo) list(match func(domain.Follow) bool, limit int) []domain.Follow {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Follow{}
	for i := len(f.follows) - 1; i >= 0; i-- {
		if match(f.follows[i]) {
			out = append(out, f.follows[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
