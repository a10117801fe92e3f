package dashboard

// DefaultTrendPoints is the volts trend window when none is configured.
const DefaultTrendPoints = 40

// Trend is a sliding window of the most recent values. It is only touched
// from the UI goroutine, so it carries no lock.
type Trend struct {
	buf *ringBuffer
}

// NewTrend creates a window holding up to size points.
func NewTrend(size int) *Trend {
	if size <= 0 {
		size = DefaultTrendPoints
	}
	return &Trend{buf: newRingBuffer(size)}
}

// Push appends a value, evicting the oldest once the window is full.
func (t *Trend) Push(v float64) {
	t.buf.push(v)
}

// Values returns the window oldest first.
func (t *Trend) Values() []float64 {
	return t.buf.getLast(t.buf.size)
}

// Len returns how many points are held.
func (t *Trend) Len() int {
	return t.buf.count
}

// Cap returns the window size.
func (t *Trend) Cap() int {
	return t.buf.size
}

// Reset empties the window.
func (t *Trend) Reset() {
	t.buf = newRingBuffer(t.buf.size)
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	count = min(count, r.count)

	result := make([]float64, count)
	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
