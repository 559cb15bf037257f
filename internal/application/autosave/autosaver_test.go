package autosave_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/application/autosave"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

type memoryStore struct {
	mu    sync.Mutex
	slots map[string]*world.Snapshot
	saved []int
}

func (s *memoryStore) Save(ctx context.Context, slot string, snap *world.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		s.slots = map[string]*world.Snapshot{}
	}
	s.slots[slot] = snap
	s.saved = append(s.saved, snap.Calendar.Day)
	return nil
}

func (s *memoryStore) Load(ctx context.Context, slot string) (*world.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.slots[slot]
	if !ok {
		return nil, world.ErrSnapshotNotFound
	}
	return snap, nil
}

func TestAutosaver_SavesOnEveryNthDay(t *testing.T) {
	// Arrange
	cfg := world.DefaultConfig()
	cfg.RandomEventProbability = 0
	cfg.BaseOrderProbability = 0
	w := world.New(cfg)
	engine := simulation.NewEngine(w, nil, shared.NewMockClock(time.Now()), nil, simulation.DefaultConfig())
	store := &memoryStore{}
	saver := autosave.NewAutosaver(store, "auto", 5, nil)
	saver.Attach(engine, w)

	// Act
	for i := 0; i < 12; i++ {
		require.NoError(t, engine.Step())
	}
	saver.Detach()

	// Assert
	snap, err := store.Load(context.Background(), "auto")
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Calendar.Day)
	assert.GreaterOrEqual(t, saver.Saves(), 1)
	assert.LessOrEqual(t, saver.Saves(), 2)
	assert.Zero(t, saver.Failures())
	assert.Equal(t, 0, engine.Signals().Day.SubscriberCount())
}
