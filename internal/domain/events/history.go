package events

// DefaultHistoryCapacity is the number of recent events the world retains
const DefaultHistoryCapacity = 100

// History is a bounded drop-oldest buffer of recent events
type History struct {
	buf   []GameEvent
	start int
	size  int
}

// NewHistory creates a history holding at most capacity events
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]GameEvent, capacity)}
}

// Add appends an event, evicting the oldest when full
func (h *History) Add(e GameEvent) {
	idx := (h.start + h.size) % len(h.buf)
	h.buf[idx] = e
	if h.size < len(h.buf) {
		h.size++
		return
	}
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of retained events
func (h *History) Len() int {
	return h.size
}

// Capacity returns the maximum number of retained events
func (h *History) Capacity() int {
	return len(h.buf)
}

// All returns retained events oldest first
func (h *History) All() []GameEvent {
	out := make([]GameEvent, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Recent returns up to n of the newest events, oldest first
func (h *History) Recent(n int) []GameEvent {
	all := h.All()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Replace discards the retained events and loads the given ones, keeping the newest that fit
func (h *History) Replace(events []GameEvent) {
	h.start = 0
	h.size = 0
	for i := range h.buf {
		h.buf[i] = GameEvent{}
	}
	for _, e := range events {
		h.Add(e)
	}
}
