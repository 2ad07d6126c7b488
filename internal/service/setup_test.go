package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"product-catalog-api/internal/core/auth"
	"product-catalog-api/internal/core/cache"
	"product-catalog-api/internal/core/database"
	"product-catalog-api/internal/core/events"
	"product-catalog-api/internal/core/oauth"
	"product-catalog-api/internal/domain"
	"product-catalog-api/internal/repo"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeProvider struct {
	name string
	info *domain.ExternalLoginInfo
	err  error
}

func (f *fakeProvider) Name() string                    { return f.name }
func (f *fakeProvider) AuthCodeURL(state string) string { return "https://provider.test/authorize?state=" + state }
func (f *fakeProvider) Exchange(context.Context, string) (*domain.ExternalLoginInfo, error) {
	return f.info, f.err
}

type testEnv struct {
	db       *gorm.DB
	users    *repo.UserRepo
	catalog  *repo.CatalogRepo
	jwt      *auth.JWTer
	events   *recorder
	provider *fakeProvider
	states   *cache.Memory

	products *ProductService
	edits    *EditProductService
	accounts *AccountService
	admin    *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:      db,
		users:   repo.NewUserRepo(db, repo.DefaultPasswordPolicy()),
		catalog: repo.NewCatalogRepo(db),
		jwt:     &auth.JWTer{Secret: []byte("test-secret"), Issuer: "catalog-test"},
		events:  &recorder{},
		provider: &fakeProvider{name: "github", info: &domain.ExternalLoginInfo{
			LoginProvider: "GitHub", ProviderKey: "4242", ProviderDisplayName: "GitHub", Email: "octo@example.com",
		}},
		states: cache.NewMemory(),
	}
	_, err = database.SeedRoles(context.Background(), env.users)
	require.NoError(t, err)

	log := zap.NewNop()
	env.products = NewProductService(env.catalog, env.events, log)
	env.edits = NewEditProductService(env.catalog, env.events, log)
	env.accounts = NewAccountService(env.users, env.jwt, ExternalLoginOptions{
		Providers:   []oauth.Provider{env.provider},
		States:      env.states,
		FrontEndURL: "http://localhost:4200/login",
	}, log)
	env.admin = NewAdminService(env.users, log)
	return env
}

func (e *testEnv) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
