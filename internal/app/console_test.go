package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleKeepsNewest(t *testing.T) {
	c := newConsole(3)
	for i := range 5 {
		c.append(fmt.Sprintf("entry %d", i))
	}

	assert.Equal(t, 3, c.len())
	assert.Equal(t, []string{"entry 2", "entry 3", "entry 4"}, c.tail(10))
	assert.Equal(t, []string{"entry 4"}, c.tail(1))
	assert.Nil(t, c.tail(0))
}

func TestConsoleConcurrentAppend(t *testing.T) {
	c := newConsole(1000)
	var wg sync.WaitGroup
	for g := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				c.append(fmt.Sprintf("%d-%d", g, i))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, c.len())
}
