package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"civic-commons/townhall/internal/auth"
	"civic-commons/townhall/internal/config"
	"civic-commons/townhall/internal/constants"
	"civic-commons/townhall/internal/db"
	"civic-commons/townhall/internal/db/repositories"
	"civic-commons/townhall/internal/geo"
	"civic-commons/townhall/internal/metrics"
	gormModels "civic-commons/townhall/internal/models/gorm"
)

// Base point used across tests; 0.0001 degrees of latitude is about 11 m.
var origin = geo.Coordinate{Latitude: 40.7128, Longitude: -74.0060}

func north(meters float64) geo.Coordinate {
	return geo.Coordinate{Latitude: origin.Latitude + meters/111195.0, Longitude: origin.Longitude}
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (f *fakeNotifier) Dispatch(_ context.Context, notices ...Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notices...)
}

func (f *fakeNotifier) forUser(userID string) []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Notice
	for _, n := range f.notices {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type testEnv struct {
	cfg      *config.Config
	store    *repositories.Store
	notifier *fakeNotifier
	metrics  *metrics.MetricsRegistry
	svc      *IssueLifecycleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.DBDriver = config.DriverSQLite
	cfg.SQLitePath = ":memory:"

	orm, err := db.InitORM(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(orm); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := orm.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := repositories.NewStore(orm)
	notifier := &fakeNotifier{}
	m := metrics.NewMetricsRegistry()
	return &testEnv{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		metrics:  m,
		svc:      NewIssueLifecycleService(store, cfg, notifier, m),
	}
}

func (e *testEnv) createUser(t *testing.T, name string, role constants.Role, community string, at *geo.Coordinate) *gormModels.User {
	t.Helper()
	ctx := context.Background()
	u := &gormModels.User{
		Name:          name,
		Email:         name + "@example.com",
		PasswordHash:  "x",
		CommunityName: community,
		Role:          role,
	}
	if err := e.store.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	if at != nil {
		if err := e.store.Users.UpdateLocation(ctx, u.ID, at.Latitude, at.Longitude, time.Now().UTC()); err != nil {
			t.Fatalf("locate user %s: %v", name, err)
		}
	}
	return u
}

func (e *testEnv) reload(t *testing.T, u *gormModels.User) *gormModels.User {
	t.Helper()
	got, err := e.store.Users.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return got
}

func (e *testEnv) report(t *testing.T, reporter *gormModels.User, at geo.Coordinate, title, description string) *ReportResult {
	t.Helper()
	res, err := e.svc.ReportIssue(context.Background(), claimsFor(reporter), ReportIssueInput{
		Coordinate:  at,
		Title:       title,
		Description: description,
	})
	if err != nil {
		t.Fatalf("ReportIssue: %v", err)
	}
	return res
}

func claimsFor(u *gormModels.User) auth.UserClaims {
	return &auth.JWTClaims{UserUUID: u.ID, RoleValue: u.Role, Community: u.CommunityName}
}
