package internal

// Stats is a snapshot of a runtime's counters.
type Stats struct {
	Scheduled uint64 // tasks created
	Executed  uint64 // continuation invocations by the work loop
	Completed uint64 // tasks that returned Done
	Yielded   uint64 // continuations that returned more work
	Cancelled uint64 // cancelled tasks skipped at dequeue
	TimedOut  uint64 // invocations with didTimeout set
	Slices    uint64 // work loops that stopped to yield to the host
	Errors    uint64 // continuations that failed

	// sync lane
	SyncFlushes  uint64
	SyncFailures uint64
}
