package gitrun

import "bytes"

// boundedBuffer captures subprocess output up to a byte limit and silently
// discards the rest. Discarding instead of erroring keeps the subprocess
// alive so its exit status is still observable.
type boundedBuffer struct {
	buf       bytes.Buffer
	limit     int64
	truncated bool
}

func newBoundedBuffer(limit int64) *boundedBuffer {
	return &boundedBuffer{limit: limit}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - int64(b.buf.Len())
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if int64(len(p)) > remaining {
		b.truncated = true
		b.buf.Write(p[:remaining])
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *boundedBuffer) String() string {
	return b.buf.String()
}

// Truncated reports whether output exceeded the limit.
func (b *boundedBuffer) Truncated() bool {
	return b.truncated
}
