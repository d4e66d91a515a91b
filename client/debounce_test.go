package client_test

import (
	"sync"
	"testing"
	"time"

	"github.com/CPU-commits/CareerNest/client"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) record(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

const delay = 20 * time.Millisecond

func TestDebouncerBurst(t *testing.T) {
	r := &recorder{}
	d := client.NewDebouncer(delay, r.record)
	defer d.Stop()

	for _, value := range []string{"d", "de", "dev", "deve"} {
		d.Push(value)
	}
	assert.Eventually(t, func() bool { return len(r.get()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(5 * delay)
	assert.Equal(t, []string{"deve"}, r.get())
}

func TestDebouncerSkipsStableValue(t *testing.T) {
	r := &recorder{}
	d := client.NewDebouncer(delay, r.record)
	defer d.Stop()

	d.Push("dev")
	assert.Eventually(t, func() bool { return len(r.get()) == 1 }, time.Second, 5*time.Millisecond)

	// Typing and deleting back to the delivered value is not a change
	d.Push("deve")
	d.Push("dev")
	time.Sleep(5 * delay)
	assert.Equal(t, []string{"dev"}, r.get())

	d.Push("")
	assert.Eventually(t, func() bool { return len(r.get()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"dev", ""}, r.get())
}

func TestDebouncerStop(t *testing.T) {
	r := &recorder{}
	d := client.NewDebouncer(delay, r.record)

	d.Push("dev")
	d.Stop()
	time.Sleep(5 * delay)
	assert.Empty(t, r.get())
}
