package ratewindow

import "time"

// filterEvents filters an array of event timestamps (UnixNano) against a map
// of rates, each specifying how many events are allowed per duration. It
// discards events that have aged out of every window and returns the
// shortest duration to wait before another event is allowed without
// violating any rate.
func filterEvents(now time.Time, rates map[time.Duration]int, events *ringBuffer[int64]) (remaining time.Duration) {
	indexFirstRelevant := events.Len()

	for rate, limit := range rates {
		if limit <= 0 || rate <= 0 {
			continue
		}

		boundary := now.Add(-rate)

		index := events.Search(boundary.UnixNano() + 1)
		if index < indexFirstRelevant {
			indexFirstRelevant = index
		}

		if limit <= events.Len()-index {
			offset := time.Unix(0, events.Get(events.Len()-limit)).Sub(boundary)
			if offset > remaining {
				remaining = offset
			}
		}
	}

	events.RemoveBefore(indexFirstRelevant)

	return remaining
}
