package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownChannelDistributorFanOut(t *testing.T) {
	shutdown := NewShutdownChannelDistributor(nil)

	channels := make([]chan bool, 4)
	for i := range channels {
		channels[i] = make(chan bool, 1)
		require.True(t, shutdown.AddListener(channels[i]))
	}

	shutdown.Shutdown()
	for _, channel := range channels {
		assert.True(t, <-channel)
	}

	late := make(chan bool, 1)
	assert.False(t, shutdown.AddListener(late))
}

func TestShutdownChannelDistributorConcurrentListeners(t *testing.T) {
	// Collection pools register their listeners from their own goroutines
	shutdown := NewShutdownChannelDistributor(nil)

	const listeners = 8
	channels := make([]chan bool, listeners)
	var waitGroup sync.WaitGroup
	waitGroup.Add(listeners)
	for i := 0; i < listeners; i++ {
		channels[i] = make(chan bool, 1)
		go func(channel chan bool) {
			defer waitGroup.Done()
			assert.True(t, shutdown.AddListener(channel))
		}(channels[i])
	}
	waitGroup.Wait()

	shutdown.Shutdown()
	for _, channel := range channels {
		assert.True(t, <-channel)
	}
}
