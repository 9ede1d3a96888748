package animation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerFansOutInOrder(t *testing.T) {
	m := NewManager()
	sink := NewMemorySink()
	require.NoError(t, m.Register("mem", sink))

	id := uuid.New()
	m.AddNode(id, "BRICK", "3")
	m.LabelNode(id, "3")
	m.NextStep()
	m.Close()

	events := sink.Events()
	require.Len(t, events, 3)
	assert.Equal(t, EventAddNode, events[0].Kind)
	assert.Equal(t, EventLabelNode, events[1].Kind)
	assert.Equal(t, EventNextStep, events[2].Kind)
}

func TestManagerDuplicateRegistrationFails(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Register("mem", NewMemorySink()))
	err := m.Register("mem", NewMemorySink())
	assert.Error(t, err)
	m.Close()
}

func TestManagerRecoversFromSinkPanic(t *testing.T) {
	var recovered any
	done := make(chan struct{}, 1)
	m := NewManager(WithPanicHandler(func(name string, r any) {
		recovered = r
		done <- struct{}{}
	}))
	require.NoError(t, m.Register("panicky", panickySink{}))

	m.AddNode(uuid.New(), "BRICK", "1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panic handler was never invoked")
	}
	assert.NotNil(t, recovered)
	m.Close()
}

type panickySink struct{ NoopSink }

func (panickySink) AddNode(uuid.UUID, string, string) { panic("boom") }
