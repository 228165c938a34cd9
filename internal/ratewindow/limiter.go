package ratewindow

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

const nextZeroValue = math.MinInt64

type (
	// Limiter tracks events against one or more sliding-window rates, per
	// category. It is safe for concurrent use.
	Limiter struct {
		running    *int32
		rates      map[time.Duration]int
		categories sync.Map
		retention  time.Duration
		mu         sync.RWMutex
	}

	categoryData struct {
		// at [0] is the next allowed event, or nextZeroValue if none
		// at [1] is the value of events[len(events)-1], or the value that _was_ that
		atomic *[2]int64
		events *ringBuffer[int64]
		mu     sync.Mutex
	}

	cleanupCategory struct {
		Category any
		Data     *categoryData
	}
)

// for testing purposes
var (
	timeNow       = time.Now
	timeNewTicker = time.NewTicker
)

var categoryDataPool = sync.Pool{New: func() any {
	return &categoryData{
		atomic: new([2]int64),
		events: newRingBuffer[int64](8),
	}
}}

// NewLimiter creates a new Limiter with configurable sliding windows.
//
// rates maps a window duration to the maximum event count allowed within it.
// Durations and counts must be positive, and rates must be monotonic:
// shorter windows must allow strictly fewer events than longer windows, and
// longer windows a strictly lower count per duration than shorter ones.
// NewLimiter panics if rates is empty or fails that check.
func NewLimiter(rates map[time.Duration]int) *Limiter {
	retention, ok := parseRates(rates)
	if !ok {
		panic(fmt.Errorf(`ratewindow: invalid rates: %v`, rates))
	}

	return &Limiter{
		running:   new(int32),
		rates:     rates,
		retention: retention,
	}
}

func (x *Limiter) ok() bool {
	return x != nil && len(x.rates) != 0
}

// Allow is a non-blocking call that attempts to register an event for the
// given category. The bool indicates whether the event was registered. The
// returned time, if non-zero, is the next time an event may be registered
// for the category without being rate limited.
func (x *Limiter) Allow(category any) (time.Time, bool) {
	if !x.ok() {
		return time.Time{}, true
	}

	// to avoid racing with cleanup
	x.mu.RLock()
	defer x.mu.RUnlock()

	now := timeNow()
	nowUnixNano := now.UnixNano()

	if atomic.CompareAndSwapInt32(x.running, 0, 1) {
		go x.worker()
	}

	var (
		data   *categoryData
		loaded bool
	)
	{
		poolValue := categoryDataPool.Get().(*categoryData)
		*poolValue.atomic = [2]int64{nextZeroValue, nowUnixNano}
		poolValue.mu.Lock()

		var value any
		value, loaded = x.categories.LoadOrStore(category, poolValue)
		if loaded {
			poolValue.mu.Unlock()
			categoryDataPool.Put(poolValue)
			data = value.(*categoryData)
		} else {
			defer poolValue.mu.Unlock()
			data = poolValue
		}
	}

	if next := data.loadNext(); next != nextZeroValue && nowUnixNano < next {
		return time.Unix(0, next), false
	}

	if loaded {
		data.mu.Lock()
		defer data.mu.Unlock()

		if data.atomic[0] != nextZeroValue && nowUnixNano < data.atomic[0] {
			return time.Unix(0, data.atomic[0]), false
		}

		if data.atomic[1] < nowUnixNano {
			data.storeRecent(nowUnixNano)
		}
	}

	data.events.Insert(data.events.Search(nowUnixNano), nowUnixNano)

	remaining := filterEvents(now, x.rates, data.events)
	if remaining <= 0 {
		data.storeNext(nextZeroValue)
		return time.Time{}, true
	}

	next := now.Add(remaining)
	data.storeNext(next.UnixNano())

	return next, true
}

// Count returns the number of events currently within the widest configured
// window, for category. It does not register an event.
func (x *Limiter) Count(category any) int {
	if !x.ok() {
		return 0
	}
	value, ok := x.categories.Load(category)
	if !ok {
		return 0
	}
	data := value.(*categoryData)
	data.mu.Lock()
	defer data.mu.Unlock()
	filterEvents(timeNow(), x.rates, data.events)
	return data.events.Len()
}

// worker handles cleanup of idle categories.
func (x *Limiter) worker() {
	var toDelete []cleanupCategory

	ticker := timeNewTicker(time.Duration(math.Max(
		float64(x.retention)*0.5,
		float64(time.Second),
	)))
	defer ticker.Stop()

	for {
		<-ticker.C

		chanceOfStop := true
		x.categories.Range(func(key, value any) bool {
			if data := value.(*categoryData); data.loadRecent() < x.cleanupThreshold() {
				toDelete = append(toDelete, cleanupCategory{key, data})
			} else {
				chanceOfStop = false
			}
			return true
		})

		if len(toDelete) != 0 {
			mustStop := x.cleanup(toDelete, chanceOfStop)
			if mustStop {
				return
			}
			toDelete = toDelete[:0]
		}
	}
}

func (x *Limiter) cleanupThreshold() int64 {
	return timeNow().Add(-x.retention).UnixNano()
}

func (x *Limiter) cleanup(toDelete []cleanupCategory, chanceOfStop bool) (mustStop bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	threshold := x.cleanupThreshold()

	for i, v := range toDelete {
		if v.Data.atomic[1] < threshold {
			x.categories.Delete(v.Category)
			const maxEventsCap = 1 << 10
			if v.Data.events.Cap() <= maxEventsCap {
				v.Data.events.RemoveBefore(v.Data.events.Len())
				categoryDataPool.Put(v.Data)
			}
		} else {
			chanceOfStop = false
		}
		toDelete[i] = cleanupCategory{}
	}

	if chanceOfStop {
		x.categories.Range(func(_, _ any) bool {
			chanceOfStop = false
			return false
		})
		if chanceOfStop {
			*x.running = 0
			return true
		}
	}

	return false
}

func (x *categoryData) loadNext() int64    { return atomic.LoadInt64(&x.atomic[0]) }
func (x *categoryData) storeNext(v int64)  { atomic.StoreInt64(&x.atomic[0], v) }
func (x *categoryData) loadRecent() int64  { return atomic.LoadInt64(&x.atomic[1]) }
func (x *categoryData) storeRecent(v int64) { atomic.StoreInt64(&x.atomic[1], v) }
