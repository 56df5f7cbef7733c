package report

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neuroevo/evo"
	"github.com/baldhumanity/neuroevo/evo/nn"
	"github.com/baldhumanity/neuroevo/evo/storage"
)

func summary(gen int, ranked ...float64) evo.Summary {
	s := evo.Summary{RunID: "run-a", Generation: gen, Evaluator: "game", Ranked: ranked}
	if len(ranked) > 0 {
		s.Best = ranked[0]
		s.Worst = ranked[len(ranked)-1]
	}
	return s
}

func TestPlotterFollowsRanks(t *testing.T) {
	p := NewPlotter("fitness")
	require.NoError(t, p.OnGeneration(summary(1, 9, 8, 7, 6, 5, 4)))
	require.NoError(t, p.OnGeneration(summary(2, 12, 8, 3)))

	best := p.Points(0)
	require.Len(t, best, 2)
	assert.Equal(t, 1.0, best[0].X)
	assert.Equal(t, 9.0, best[0].Y)
	assert.Equal(t, 12.0, best[1].Y)

	fifth := p.Points(4)
	require.Len(t, fifth, 1, "a population of three has no fifth rank")
	assert.Equal(t, 5.0, fifth[0].Y)
}

func TestPlotterSave(t *testing.T) {
	p := NewPlotter("fitness")
	path := filepath.Join(t.TempDir(), "fitness.png")
	assert.Error(t, p.Save(path))

	for g := 1; g <= 5; g++ {
		require.NoError(t, p.OnGeneration(summary(g, float64(g), 1, 0, -1, float64(-g))))
	}
	require.NoError(t, p.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func newTestServer(t *testing.T, store storage.Store) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	done := make(chan struct{})
	go hub.Run(done)
	srv := httptest.NewServer(NewRouter(hub, store))
	t.Cleanup(func() {
		srv.Close()
		close(done)
	})
	return hub, srv
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp.StatusCode
}

func TestRouterServesHistory(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.SaveSummary(ctx, summary(1, 3, 2)))
	require.NoError(t, store.SaveSummary(ctx, summary(2, 4, 2)))
	require.NoError(t, store.SaveChampion(ctx, storage.Champion{
		RunID:      "run-a",
		Generation: 2,
		Fitness:    4,
		Objective:  evo.Maximize,
		Network:    nn.Snapshot{Shape: []int{1, 1}, Weights: [][]float64{{1}}, Biases: [][]float64{{0}}, Settings: nn.DefaultSettings()},
	}))
	_, srv := newTestServer(t, store)

	var ping map[string]bool
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/ping", &ping))
	assert.True(t, ping["ok"])

	var runs struct {
		Runs []string `json:"runs"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs", &runs))
	assert.Equal(t, []string{"run-a"}, runs.Runs)

	var history struct {
		RunID       string        `json:"run_id"`
		Generations []evo.Summary `json:"generations"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs/run-a/generations", &history))
	require.Len(t, history.Generations, 2)
	assert.Equal(t, 2, history.Generations[1].Generation)
	assert.Equal(t, 4.0, history.Generations[1].Best)

	var champion storage.Champion
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs/run-a/champion", &champion))
	assert.Equal(t, 2, champion.Generation)
	assert.Equal(t, []int{1, 1}, champion.Network.Shape)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/runs/nope/champion", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/latest", nil))
}

func TestRouterWithoutStore(t *testing.T) {
	_, srv := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/runs", nil))
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHubBroadcastsGenerations(t *testing.T) {
	hub, srv := newTestServer(t, nil)
	require.NoError(t, hub.OnGeneration(summary(1, 5, 1)))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// a new client is caught up with the latest generation first
	msg := readMessage(t, conn)
	assert.Equal(t, "latest", msg.Type)
	require.Eventually(t, hub.HasClients, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.OnGeneration(summary(2, 7, 1)))
	var got evo.Summary
	for got.Generation != 2 {
		msg = readMessage(t, conn)
		require.Equal(t, "generation", msg.Type)
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
	}
	assert.Equal(t, 7.0, got.Best)

	var latest evo.Summary
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/latest", &latest))
	assert.Equal(t, 2, latest.Generation)
}

func TestHubNeverBlocksObserver(t *testing.T) {
	hub := NewHub()
	for g := 0; g < 100; g++ {
		require.NoError(t, hub.OnGeneration(summary(g, 1)))
	}
	s, ok := hub.Latest()
	require.True(t, ok)
	assert.Equal(t, 99, s.Generation)
}

var _ evo.Observer = (*Hub)(nil)
var _ evo.Observer = (*Plotter)(nil)

func TestHubEncodesNonFiniteFitness(t *testing.T) {
	payload := mustMarshal(summary(3, math.Inf(1), math.NaN()))
	require.NotEmpty(t, payload)
	var got evo.Summary
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.True(t, math.IsInf(got.Best, 1))
	assert.True(t, math.IsNaN(got.Worst))
}
