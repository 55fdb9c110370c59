package execx

// Tail is an io.Writer that keeps the last cap bytes written to it, or
// everything when cap <= 0.
type Tail struct {
	buf []byte
	cap int
}

func NewTail(maxBytes int) *Tail {
	return &Tail{cap: maxBytes}
}

func (t *Tail) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if t.cap > 0 && len(t.buf) > t.cap {
		t.buf = t.buf[len(t.buf)-t.cap:]
	}
	return len(p), nil
}

func (t *Tail) String() string { return string(t.buf) }
