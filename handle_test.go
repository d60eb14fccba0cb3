package dbuf

import (
	"testing"
	"unsafe"

	"github.com/zeebo/assert"
)

func TestHandle(t *testing.T) {
	ch := make(chan bool, 2)
	var h handle
	h.beginRead()
	go func() {
		h.waitReadDone()
		ch <- false
	}()
	ch <- true
	h.endRead()
	assert.That(t, <-ch)
	assert.That(t, !<-ch)
}

func TestHandleIdle(t *testing.T) {
	var h handle
	assert.That(t, h.idle())

	h.beginRead()
	assert.That(t, !h.idle())
	h.endRead()
	assert.That(t, h.idle())

	// an idle handle does not need to be locked to be waited on.
	h.mu.Lock()
	h.waitReadDone()
	h.mu.Unlock()
}

func TestHandleDoubleRelease(t *testing.T) {
	var h handle
	h.beginRead()
	h.endRead()

	defer func() { assert.That(t, recover() != nil) }()
	h.endRead()
}

func TestHandlePadding(t *testing.T) {
	assert.Equal(t, unsafe.Sizeof(handle{}), uintptr(cacheLine))
}
