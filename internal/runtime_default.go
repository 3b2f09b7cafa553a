//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the runtime of the calling goroutine, creating it on
// first use. It is confined to that goroutine.
func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := newDefaultRuntime()
	r.owner.Bind()
	runtimes.Store(gid, r)
	return r
}

// ReleaseRuntime forgets the calling goroutine's runtime.
func ReleaseRuntime() {
	runtimes.Delete(getGID())
}

func getGID() int64 {
	return goid.Get()
}

func newDefaultRuntime() *Runtime {
	r, err := NewRuntime(WithOwnerCheck(true))
	if err != nil {
		panic(err)
	}
	return r
}
