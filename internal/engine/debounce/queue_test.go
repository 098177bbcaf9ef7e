package debounce_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/engine/debounce"
)

// received drains ch without blocking.
func received(ch <-chan bool) (value, ok bool) {
	select {
	case v := <-ch:
		return v, true
	default:
		return false, false
	}
}

func TestQueue_SingleTickSettles(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := debounce.New[string]()
		ch := q.Tick("/p/a.js", 200*time.Millisecond)

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		_, ok := received(ch)
		require.False(t, ok, "ticket must not settle before its delay")
		assert.Equal(t, 1, q.Pending())

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		v, ok := received(ch)
		require.True(t, ok)
		assert.True(t, v)
		assert.Zero(t, q.Pending())
	})
}

func TestQueue_BurstCoalescesToLastTick(t *testing.T) {
	tests := []struct {
		name  string
		ticks int
		gap   time.Duration
	}{
		{name: "two ticks", ticks: 2, gap: 10 * time.Millisecond},
		{name: "five ticks within 50ms", ticks: 5, gap: 10 * time.Millisecond},
		{name: "ten ticks just inside the window", ticks: 10, gap: 199 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				q := debounce.New[string]()
				chans := make([]<-chan bool, 0, tt.ticks)

				for i := range tt.ticks {
					if i > 0 {
						time.Sleep(tt.gap)
					}
					chans = append(chans, q.Tick("key", 200*time.Millisecond))
				}

				time.Sleep(300 * time.Millisecond)
				synctest.Wait()

				trues := 0
				for i, ch := range chans {
					v, ok := received(ch)
					require.True(t, ok, "tick %d never resolved", i)
					if v {
						trues++
						assert.Equal(t, tt.ticks-1, i, "only the last tick may settle")
					}
				}
				assert.Equal(t, 1, trues)
			})
		})
	}
}

func TestQueue_SupersededResolvesImmediately(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := debounce.New[string]()
		first := q.Tick("key", time.Second)
		_ = q.Tick("key", time.Second)

		v, ok := received(first)
		require.True(t, ok, "superseded ticket resolves before the new delay elapses")
		assert.False(t, v)
	})
}

func TestQueue_KeysAreIndependent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := debounce.New[string]()
		a := q.Tick("a", 100*time.Millisecond)
		b := q.Tick("b", 100*time.Millisecond)
		_ = q.Tick("c", 100*time.Millisecond)
		assert.Equal(t, 3, q.Pending())

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		va, _ := received(a)
		vb, _ := received(b)
		assert.True(t, va)
		assert.True(t, vb)
	})
}

func TestQueue_SettledTicketIsNotResolvedAgain(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := debounce.New[string]()

		var mu sync.Mutex
		var results []bool
		q.TickFunc("key", 100*time.Millisecond, func(settled bool) {
			mu.Lock()
			defer mu.Unlock()
			results = append(results, settled)
		})

		time.Sleep(110 * time.Millisecond)
		synctest.Wait()

		second := q.Tick("key", 100*time.Millisecond)

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, []bool{true}, results)
		mu.Unlock()

		v, ok := received(second)
		require.True(t, ok)
		assert.True(t, v)
	})
}

func TestQueue_TickFuncFalseRunsBeforeTickReturns(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := debounce.New[int]()

		var got []bool
		q.TickFunc(1, time.Second, func(settled bool) { got = append(got, settled) })
		q.TickFunc(1, time.Second, func(bool) {})

		assert.Equal(t, []bool{false}, got)
		q.Close()
	})
}

func TestQueue_Close(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := debounce.New[string]()
		a := q.Tick("a", time.Second)
		b := q.Tick("b", time.Second)

		q.Close()
		q.Close()

		va, ok := received(a)
		require.True(t, ok)
		assert.False(t, va)
		vb, ok := received(b)
		require.True(t, ok)
		assert.False(t, vb)
		assert.Zero(t, q.Pending())

		late := q.Tick("c", time.Millisecond)
		v, ok := received(late)
		require.True(t, ok, "ticks after Close resolve immediately")
		assert.False(t, v)

		time.Sleep(2 * time.Second)
		synctest.Wait()
		_, ok = received(a)
		assert.False(t, ok, "stopped timers never resolve again")
	})
}

func TestQueue_ConcurrentTicks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := debounce.New[int]()

		var mu sync.Mutex
		settled := make(map[int]int)
		superseded := 0

		var wg sync.WaitGroup
		for key := range 4 {
			for range 25 {
				wg.Go(func() {
					q.TickFunc(key, 50*time.Millisecond, func(ok bool) {
						mu.Lock()
						defer mu.Unlock()
						if ok {
							settled[key]++
						} else {
							superseded++
						}
					})
				})
			}
		}
		wg.Wait()

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1}, settled)
		assert.Equal(t, 96, superseded)
	})
}
