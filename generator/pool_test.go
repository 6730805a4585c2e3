package generator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPool(t *testing.T) {
	t.Run("new buffers are preallocated", func(t *testing.T) {
		buf := getBuffer()
		assert.GreaterOrEqual(t, buf.Cap(), initialBufferSize)
		assert.Zero(t, buf.Len())
		putBuffer(buf)
	})

	t.Run("reused buffers come back empty", func(t *testing.T) {
		buf := getBuffer()
		buf.WriteString("package model\n")
		putBuffer(buf)

		again := getBuffer()
		assert.Zero(t, again.Len())
		putBuffer(again)
	})

	t.Run("nil and oversized buffers are dropped", func(t *testing.T) {
		putBuffer(nil)
		putBuffer(bytes.NewBuffer(make([]byte, 0, maxPooledBufferSize+1)))
	})
}

func BenchmarkBuffer_WithPool(b *testing.B) {
	for b.Loop() {
		buf := getBuffer()
		buf.WriteString("package model\n\ntype Order struct{}\n")
		putBuffer(buf)
	}
}

func BenchmarkBuffer_WithoutPool(b *testing.B) {
	for b.Loop() {
		buf := bytes.NewBuffer(make([]byte, 0, initialBufferSize))
		buf.WriteString("package model\n\ntype Order struct{}\n")
	}
}
