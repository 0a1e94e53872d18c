package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Cienszki/automatic-tournament-sub001/brackets"
	"github.com/Cienszki/automatic-tournament-sub001/handlers"
	"github.com/Cienszki/automatic-tournament-sub001/middleware"
	"github.com/Cienszki/automatic-tournament-sub001/models"
	"github.com/Cienszki/automatic-tournament-sub001/repositories"
	"github.com/Cienszki/automatic-tournament-sub001/routes"
	"github.com/Cienszki/automatic-tournament-sub001/services"
)

var testSecret = []byte("handler-test-secret")

type memoryPlayoffRepository struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemoryPlayoffRepository() *memoryPlayoffRepository {
	return &memoryPlayoffRepository{docs: make(map[string][]byte)}
}

func (r *memoryPlayoffRepository) Create(_ context.Context, playoff *models.PlayoffData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := bson.Marshal(playoff)
	if err != nil {
		return err
	}
	r.docs[playoff.ID] = data
	return nil
}

func (r *memoryPlayoffRepository) GetByID(_ context.Context, id string) (*models.PlayoffData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.docs[id]
	if !ok {
		return nil, repositories.ErrPlayoffNotFound
	}
	var p models.PlayoffData
	if err := bson.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *memoryPlayoffRepository) List(ctx context.Context) ([]*models.PlayoffData, error) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	playoffs := make([]*models.PlayoffData, 0, len(ids))
	for _, id := range ids {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		playoffs = append(playoffs, p)
	}
	return playoffs, nil
}

func (r *memoryPlayoffRepository) Update(ctx context.Context, playoff *models.PlayoffData, expectedVersion int64) error {
	stored, err := r.GetByID(ctx, playoff.ID)
	if err != nil {
		return err
	}
	if stored.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}
	return r.Create(ctx, playoff)
}

func (r *memoryPlayoffRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return repositories.ErrPlayoffNotFound
	}
	delete(r.docs, id)
	return nil
}

type testServer struct {
	server *httptest.Server
	svc    services.PlayoffService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := brackets.NewHub(logger)
	go hub.Run()

	svc := services.NewPlayoffService(
		newMemoryPlayoffRepository(),
		brackets.NewDoubleEliminationGenerator(),
		hub,
		nil,
		logger,
	)

	router := chi.NewRouter()
	routes.SetupRoutes(router,
		handlers.NewPlayoffHandler(svc),
		handlers.NewWebSocketHandler(hub),
		middleware.NewAuthenticator(testSecret),
	)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return &testServer{server: ts, svc: svc}
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodePlayoff(t *testing.T, resp *http.Response) *models.PlayoffData {
	t.Helper()
	var envelope struct {
		Playoff *models.PlayoffData `json:"playoff"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotNil(t, envelope.Playoff)
	return envelope.Playoff
}

func TestInitializeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := signToken(t, "admin")

	resp := ts.do(t, http.MethodPost, "/playoffs", token, map[string]string{"name": "Summer Major"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	playoff := decodePlayoff(t, resp)
	assert.Equal(t, "Summer Major", playoff.Name)
	assert.Len(t, playoff.Matches, 24)
}

func TestInitializeEndpoint_MissingName(t *testing.T) {
	ts := newTestServer(t)
	token := signToken(t, "admin")

	resp := ts.do(t, http.MethodPost, "/playoffs", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetEndpoint_PublicRead(t *testing.T) {
	ts := newTestServer(t)
	playoff, err := ts.svc.Initialize(context.Background(), "Summer Major")
	require.NoError(t, err)

	resp := ts.do(t, http.MethodGet, "/playoffs/"+playoff.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodePlayoff(t, resp)
	assert.Equal(t, playoff.ID, got.ID)
}

func TestGetEndpoint_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/playoffs/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminRoutes_RequireAdminToken(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/playoffs", "", map[string]string{"name": "X"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/playoffs", signToken(t, "viewer"), map[string]string{"name": "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAssignTeamEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := signToken(t, "admin")
	playoff, err := ts.svc.Initialize(context.Background(), "Summer Major")
	require.NoError(t, err)

	resp := ts.do(t, http.MethodPost, "/playoffs/"+playoff.ID+"/slots/assign", token, map[string]string{
		"slot_id":      "ub-slot-r1-1",
		"bracket_type": "upper",
		"team_id":      "team-radiant",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodePlayoff(t, resp)
	assert.Equal(t, "team-radiant", got.Slots["ub-slot-r1-1"].TeamID)
}

func TestAssignTeamEndpoint_UnknownField(t *testing.T) {
	ts := newTestServer(t)
	token := signToken(t, "admin")
	playoff, err := ts.svc.Initialize(context.Background(), "Summer Major")
	require.NoError(t, err)

	resp := ts.do(t, http.MethodPost, "/playoffs/"+playoff.ID+"/slots/assign", token, map[string]string{
		"slot": "ub-slot-r1-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessResultEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := signToken(t, "admin")
	playoff, err := ts.svc.Initialize(context.Background(), "Summer Major")
	require.NoError(t, err)

	resp := ts.do(t, http.MethodPost, "/playoffs/"+playoff.ID+"/matches/ub-r1-m1/result", token, map[string]interface{}{
		"winner_id":    "team-a",
		"loser_id":     "team-b",
		"team_a_score": 2,
		"team_b_score": 0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodePlayoff(t, resp)
	assert.Equal(t, models.MatchStatusCompleted, got.Matches["ub-r1-m1"].Status)
	assert.Equal(t, "team-a", got.Slots["ub-slot-r2-1"].TeamID)
	assert.Equal(t, "team-b", got.Slots["lb-slot-r2-5"].TeamID)
}

func TestSetFormatEndpoint_InvalidFormat(t *testing.T) {
	ts := newTestServer(t)
	token := signToken(t, "admin")
	playoff, err := ts.svc.Initialize(context.Background(), "Summer Major")
	require.NoError(t, err)

	resp := ts.do(t, http.MethodPatch, "/playoffs/"+playoff.ID+"/matches/ub-r1-m1/format", token, map[string]string{
		"format": "bo7",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := signToken(t, "admin")
	playoff, err := ts.svc.Initialize(context.Background(), "Summer Major")
	require.NoError(t, err)
	_, err = ts.svc.ProcessResult(context.Background(), playoff.ID, "ub-r1-m1", "team-a", "team-b", 2, 0)
	require.NoError(t, err)

	resp := ts.do(t, http.MethodPost, "/playoffs/"+playoff.ID+"/reset", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodePlayoff(t, resp)
	assert.Equal(t, models.MatchStatusScheduled, got.Matches["ub-r1-m1"].Status)
	assert.Empty(t, got.Slots["ub-slot-r2-1"].TeamID)
}
