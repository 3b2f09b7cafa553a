//go:build wasm

package internal

import "sync"

var (
	mu            sync.Mutex
	globalRuntime *Runtime
)

// GetRuntime returns the single runtime, wasm has only one thread.
func GetRuntime() *Runtime {
	mu.Lock()
	defer mu.Unlock()

	if globalRuntime == nil {
		globalRuntime = newDefaultRuntime()
	}

	return globalRuntime
}

func ReleaseRuntime() {
	mu.Lock()
	defer mu.Unlock()

	globalRuntime = nil
}

func newDefaultRuntime() *Runtime {
	r, err := NewRuntime()
	if err != nil {
		panic(err)
	}
	return r
}

// single threaded, every caller is the owner
func getGID() int64 {
	return 0
}
