package http

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	mw "github.com/lorrc/it-helpdesk/internal/adapters/primary/http/middleware"
	pgadapter "github.com/lorrc/it-helpdesk/internal/adapters/secondary/postgres"
	"github.com/lorrc/it-helpdesk/internal/adapters/secondary/storage"
	"github.com/lorrc/it-helpdesk/internal/auth"
	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/services"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		pgcontainer.WithDatabase("test-db"),
		pgcontainer.WithUsername("user"),
		pgcontainer.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("could not get connection string: %v", err)
	}

	migrationsPath, err := filepath.Abs("../../../../migrations")
	if err != nil {
		log.Fatalf("could not find migrations directory: %v", err)
	}

	migrationURL := "file://" + migrationsPath
	mig, err := migrate.New(migrationURL, connStr)
	if err != nil {
		log.Fatalf("could not create migrate instance: %v", err)
	}
	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("could not run migrations: %v", err)
	}

	testPool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not create connection pool: %v", err)
	}

	code := m.Run()

	testPool.Close()
	if err := pgContainer.Terminate(ctx); err != nil {
		log.Fatalf("could not terminate postgres container: %v", err)
	}

	os.Exit(code)
}

// newAPIRouter wires a full API router against the shared test database,
// mirroring the composition in cmd/api.
func newAPIRouter(t *testing.T) (*chi.Mux, *auth.TokenManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)

	userRepo := pgadapter.NewUserRepository(testPool)
	ticketRepo := pgadapter.NewTicketRepository(testPool)
	authzRepo := pgadapter.NewAuthorizationRepository(testPool)
	commentRepo := pgadapter.NewCommentRepository(testPool)
	attachmentRepo := pgadapter.NewAttachmentRepository(testPool)
	dashboardRepo := pgadapter.NewDashboardRepository(testPool)

	blobStore, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	authService := services.NewAuthService(userRepo)
	authzService := services.NewAuthorizationService(authzRepo)
	ticketService := services.NewTicketService(ticketRepo, authzService, nil)
	commentService := services.NewCommentService(commentRepo, ticketService, authzService, nil)
	attachmentService := services.NewAttachmentService(attachmentRepo, ticketService, blobStore)
	adminService := services.NewAdminService(ticketRepo, dashboardRepo, authzService)

	tokenManager := auth.NewTokenManager("test-secret", time.Hour)

	authHandler := NewAuthHandler(authService, tokenManager, errorHandler, logger)
	meHandler := NewMeHandler(authService, authzService, errorHandler, logger)
	commentHandler := NewCommentHandler(commentService, errorHandler, logger)
	attachmentHandler := NewAttachmentHandler(attachmentService, errorHandler, logger)
	ticketHandler := NewTicketHandler(ticketService, commentHandler, attachmentHandler, errorHandler, logger)
	adminHandler := NewAdminHandler(adminService, errorHandler, logger)

	router := chi.NewRouter()
	router.Route("/auth", authHandler.RegisterRoutes)
	router.Group(func(r chi.Router) {
		r.Use(mw.JWTMiddleware(tokenManager))
		r.Route("/me", meHandler.RegisterRoutes)
		r.Route("/tickets", ticketHandler.RegisterRoutes)
		r.Route("/admin", adminHandler.RegisterRoutes)
	})

	return router, tokenManager
}

// registerUser creates a fresh account through the auth service.
func registerUser(t *testing.T, ctx context.Context, fullName string) *domain.User {
	t.Helper()

	userRepo := pgadapter.NewUserRepository(testPool)
	authService := services.NewAuthService(userRepo)

	user, err := authService.Register(ctx, fullName, uuid.NewString()+"@example.com", "Password1")
	require.NoError(t, err)
	return user
}

// promoteToStaff grants the IT staff role.
func promoteToStaff(t *testing.T, ctx context.Context, userID uuid.UUID) {
	t.Helper()

	authzRepo := pgadapter.NewAuthorizationRepository(testPool)
	require.NoError(t, authzRepo.AssignRole(ctx, userID, domain.RoleITStaff))
}

func tokenFor(t *testing.T, tokenManager *auth.TokenManager, userID uuid.UUID) string {
	t.Helper()

	token, err := tokenManager.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// doRequest runs an authorized request against the router.
func doRequest(router *chi.Mux, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}
