package generator

import (
	"bytes"
	"sync"
)

// initialBufferSize fits the rendered source of a few dozen entities.
const initialBufferSize = 16 * 1024

// maxPooledBufferSize caps what goes back into the pool so that one huge
// schema does not pin its buffer for the life of the process.
const maxPooledBufferSize = 1 << 20

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, initialBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBufferSize {
		return
	}
	bufferPool.Put(buf)
}
