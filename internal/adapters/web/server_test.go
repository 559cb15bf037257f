package web_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/adapters/web"
	controlQueries "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
	"github.com/andrescamacho/headquartz-go/test/helpers"
)

func statsMediator() *helpers.MockMediator {
	m := helpers.NewMockMediator()
	m.SetSendFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return &controlQueries.GetStatisticsResponse{Statistics: simulation.Statistics{
			TicksProcessed: 12,
			Running:        true,
			Speed:          2,
			Phase:          simulation.PhaseExecution,
			World:          world.Statistics{Day: 12, CashBalance: decimal.NewFromInt(990_000)},
		}}, nil
	})
	return m
}

func TestServer_Stats(t *testing.T) {
	// Arrange
	s := web.NewServer(web.Config{}, statsMediator(), nil, nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// Act
	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stats simulation.Statistics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, uint64(12), stats.TicksProcessed)
	assert.Equal(t, simulation.PhaseExecution, stats.Phase)
	assert.Equal(t, 12, stats.World.Day)
	assert.True(t, stats.World.CashBalance.Equal(decimal.NewFromInt(990_000)))
}

func TestServer_StatsRejectsPost(t *testing.T) {
	// Arrange
	s := web.NewServer(web.Config{}, statsMediator(), nil, nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// Act
	resp, err := http.Post(ts.URL+"/stats", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()

	// Assert
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	// Arrange
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "headquartz_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Add(3)
	s := web.NewServer(web.Config{MetricsPath: "/metrics"}, statsMediator(), nil, registry, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// Act
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "headquartz_test_total 3")
}

func TestServer_NoMetricsWithoutGatherer(t *testing.T) {
	// Arrange
	s := web.NewServer(web.Config{}, statsMediator(), nil, nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// Act
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventFeed_StreamsFilteredEvents(t *testing.T) {
	// Arrange
	bus := events.NewBus()
	s := web.NewServer(web.Config{}, statsMediator(), bus, nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events?severity=HIGH"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return bus.SubscriberCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	date := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	// Act
	bus.Publish(events.NewWithSeverity(events.KindMarketChange, events.SeverityInfo, "demand drifted", date, 31))
	bus.Publish(events.NewWithSeverity(events.KindMachineBreakdown, events.SeverityHigh, "line 2 down", date, 31))

	// Assert
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var record events.Record
	require.NoError(t, conn.ReadJSON(&record))
	assert.Equal(t, string(events.KindMachineBreakdown), record.Kind)
	assert.Equal(t, "line 2 down", record.Message)
	assert.Equal(t, 31, record.Day)
}

func TestEventFeed_RejectsUnknownKind(t *testing.T) {
	// Arrange
	s := web.NewServer(web.Config{}, statsMediator(), events.NewBus(), nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	// Act
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events?kind=ALIENS"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	// Assert
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEventFeed_UnsubscribesOnDisconnect(t *testing.T) {
	// Arrange
	bus := events.NewBus()
	s := web.NewServer(web.Config{}, statsMediator(), bus, nil, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/events", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return bus.SubscriberCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Act
	conn.Close()

	// Assert
	assert.Eventually(t, func() bool { return bus.SubscriberCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	// Arrange
	s := web.NewServer(web.Config{Addr: "127.0.0.1:0"}, statsMediator(), events.NewBus(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	// Act
	time.Sleep(50 * time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}
