package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"umlforge/internal/database"
	"umlforge/internal/models"
	"umlforge/internal/realtime"
	"umlforge/internal/repositories"
)

type env struct {
	pool     *pgxpool.Pool
	hub      *realtime.Hub
	projects *ProjectService
	diagrams *DiagramService
	shares   *ShareService
}

func setup(t *testing.T) *env {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("umlforge_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.RunMigrations(pool))

	logger := zap.NewNop()
	hub := realtime.NewHub(logger)
	projectRepo := repositories.NewProjectRepository(pool)
	diagramRepo := repositories.NewDiagramRepository(pool)
	shareRepo := repositories.NewShareRepository(pool)

	return &env{
		pool:     pool,
		hub:      hub,
		projects: NewProjectService(projectRepo, diagramRepo, logger),
		diagrams: NewDiagramService(diagramRepo, projectRepo, shareRepo, hub, logger),
		shares:   NewShareService(shareRepo, diagramRepo, projectRepo),
	}
}

func createOwner(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	users := repositories.NewUserRepository(pool)
	user := &models.User{
		Email:          uuid.NewString() + "@example.com",
		Username:       "owner",
		HashedPassword: "x",
		IsActive:       true,
	}
	require.NoError(t, users.Create(user))
	return user.ID
}

func TestProjectCreateIncludesStarterDiagram(t *testing.T) {
	e := setup(t)
	owner := createOwner(t, e.pool)

	project, diagram, err := e.projects.Create(owner, "Shop")
	require.NoError(t, err)
	require.NotNil(t, diagram)
	assert.Equal(t, project.ID, diagram.ProjectID)
	assert.Equal(t, 1, diagram.Version)
	require.NotNil(t, diagram.Data)
	assert.Empty(t, diagram.Data.Classes)

	listed, err := e.projects.ListDiagrams(project.ID, owner)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestDiagramCreateRequiresOwnership(t *testing.T) {
	e := setup(t)
	owner := createOwner(t, e.pool)
	stranger := createOwner(t, e.pool)
	project, _, err := e.projects.Create(owner, "Shop")
	require.NoError(t, err)

	created, err := e.diagrams.Create(project.ID, nil, &owner)
	require.NoError(t, err)
	assert.Equal(t, project.ID, created.ProjectID)
	assert.Equal(t, 1, created.Version)
	require.NotNil(t, created.Data)
	assert.Empty(t, created.Data.Classes)

	_, err = e.diagrams.Create(project.ID, nil, &stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.diagrams.Create(project.ID, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.diagrams.Create(uuid.New(), nil, &owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiagramUpdateBumpsVersionAndBroadcasts(t *testing.T) {
	e := setup(t)
	owner := createOwner(t, e.pool)
	_, diagram, err := e.projects.Create(owner, "Shop")
	require.NoError(t, err)

	ch := e.hub.Subscribe(diagram.ID.String())
	defer e.hub.Unsubscribe(diagram.ID.String(), ch)

	data := models.DiagramData{
		Classes: []models.UMLClass{
			{ID: "c1", Name: "User"},
			{ID: "c1", Name: "User duplicate"},
		},
		Associations: []models.Association{},
	}
	updated, err := e.diagrams.Update(diagram.ID.String(), data, &owner, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	// Duplicate ids are collapsed before the payload is stored.
	assert.Len(t, updated.Data.Classes, 1)

	select {
	case raw := <-ch:
		var update realtime.Update
		require.NoError(t, json.Unmarshal(raw, &update))
		assert.Equal(t, realtime.UpdateTypeUpdate, update.Type)
		assert.Equal(t, "session-1", update.UserID)
		require.NotNil(t, update.DiagramData)
		assert.Len(t, update.DiagramData.Classes, 1)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestDiagramAccessControl(t *testing.T) {
	e := setup(t)
	owner := createOwner(t, e.pool)
	stranger := createOwner(t, e.pool)
	_, diagram, err := e.projects.Create(owner, "Shop")
	require.NoError(t, err)

	_, err = e.diagrams.Get(diagram.ID.String(), &stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.diagrams.Get(diagram.ID.String(), nil)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.diagrams.Get("not-a-uuid", &owner)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.diagrams.Get(uuid.NewString(), &owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareLinkResolution(t *testing.T) {
	e := setup(t)
	owner := createOwner(t, e.pool)
	_, diagram, err := e.projects.Create(owner, "Shop")
	require.NoError(t, err)

	share, err := e.shares.Create(diagram.ID, owner, 0)
	require.NoError(t, err)
	require.NotNil(t, share.ExpiresAt)
	assert.Len(t, share.Token, 8)

	// Anyone holding the link reads the diagram without logging in.
	got, err := e.diagrams.Get(SharePrefix+share.Token, nil)
	require.NoError(t, err)
	assert.Equal(t, diagram.ID, got.ID)

	// Share links cannot delete.
	err = e.diagrams.Delete(SharePrefix+share.Token, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	// Token lookup is public and carries the snapshot.
	info, err := e.shares.Get(share.Token)
	require.NoError(t, err)
	assert.Equal(t, diagram.ID, info.DiagramID)
	assert.NotNil(t, info.DiagramData)

	// Revoked links stop resolving.
	require.NoError(t, e.shares.Revoke(share.Token, owner))
	_, err = e.diagrams.Get(SharePrefix+share.Token, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.shares.Get(share.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareExpiry(t *testing.T) {
	e := setup(t)
	owner := createOwner(t, e.pool)
	_, diagram, err := e.projects.Create(owner, "Shop")
	require.NoError(t, err)

	share, err := e.shares.Create(diagram.ID, owner, time.Minute)
	require.NoError(t, err)

	orig := timeNow
	timeNow = func() time.Time { return time.Now().Add(2 * time.Minute) }
	defer func() { timeNow = orig }()

	_, err = e.diagrams.Get(SharePrefix+share.Token, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

type fakeGenerator struct {
	generated *models.DiagramData
}

func (f *fakeGenerator) GenerateDiagram(_ context.Context, _ string) (*models.DiagramData, error) {
	return f.generated, nil
}

func (f *fakeGenerator) ModifyDiagram(_ context.Context, _ string, existing models.DiagramData) (*models.DiagramData, error) {
	out := existing
	out.Classes = append(out.Classes, f.generated.Classes...)
	return &out, nil
}

func TestAssistServicePersistsGeneratedDiagram(t *testing.T) {
	e := setup(t)
	owner := createOwner(t, e.pool)
	_, diagram, err := e.projects.Create(owner, "Shop")
	require.NoError(t, err)

	gen := &fakeGenerator{generated: &models.DiagramData{
		Classes:      []models.UMLClass{{ID: "c1", Name: "User"}},
		Associations: []models.Association{},
	}}
	assist := NewAssistService(gen, e.diagrams)

	updated, err := assist.Generate(context.Background(), diagram.ID.String(), "a shop", &owner, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	require.Len(t, updated.Data.Classes, 1)

	modified, err := assist.Modify(context.Background(), diagram.ID.String(), "add orders", &owner, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 3, modified.Version)
}
