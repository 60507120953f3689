// Package chflow provides non-blocking helpers for fanning values out on Go
// channels.
package chflow

// SendLatest delivers data on a buffered channel without ever blocking.
// When the buffer is full the oldest pending value is dropped to make room,
// so a slow reader always observes the most recent value. ch must be owned
// by the caller; concurrent writers may still race for the freed slot, in
// which case false is returned.
func SendLatest[T any](ch chan T, data T) bool {
	for range 2 {
		select {
		case ch <- data:
			return true
		default:
		}

		select {
		case <-ch:
		default:
		}
	}

	return false
}
