package internal

// Owner confines a runtime to a single goroutine.
// When enabled, the first goroutine to enter becomes the owner and any later
// entry from another goroutine is a fatal misuse.
type Owner struct {
	enabled bool
	bound   bool
	gid     int64
}

func NewOwner(enabled bool) *Owner {
	return &Owner{enabled: enabled}
}

// Bind makes the calling goroutine the owner.
func (o *Owner) Bind() {
	o.gid = getGID()
	o.bound = true
}

// Release forgets the current owner, the next entry binds again.
func (o *Owner) Release() {
	o.bound = false
	o.gid = 0
}

func (o *Owner) Enabled() bool { return o.enabled }

func (o *Owner) Check(op string) {
	if !o.enabled {
		return
	}

	gid := getGID()
	if !o.bound {
		o.gid = gid
		o.bound = true
		return
	}

	if gid != o.gid {
		misuse(op, "called from a goroutine that does not own the runtime")
	}
}
