package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ConsumeClears(t *testing.T) {
	sink := NewCollector()
	sink.Warn("w1")
	sink.Warn("w2")
	sink.Error("e1")

	warnings := sink.ConsumeWarnings()
	require.Equal(t, []string{"w1", "w2"}, warnings)
	assert.Empty(t, sink.ConsumeWarnings())

	errs := sink.ConsumeErrors()
	require.Equal(t, []string{"e1"}, errs)
	assert.Empty(t, sink.ConsumeErrors())
}

func TestCollector_Concurrent(t *testing.T) {
	sink := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Warn("warning")
			sink.Error("error")
		}()
	}
	wg.Wait()

	assert.Len(t, sink.ConsumeWarnings(), 10)
	assert.Len(t, sink.ConsumeErrors(), 10)
}

func TestNopSink(t *testing.T) {
	var sink MessageSink = NopSink{}
	sink.Warn("dropped")
	sink.Error("dropped")
}
