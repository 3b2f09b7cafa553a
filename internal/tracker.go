package internal

// Tracker holds the ambient execution state of a scheduler: which task is
// running and at what priority.
type Tracker struct {
	currentPriority PriorityLevel
	currentTask     *Task
}

func NewTracker() *Tracker {
	return &Tracker{
		currentPriority: NormalPriority,
	}
}

func (t *Tracker) CurrentPriority() PriorityLevel {
	return t.currentPriority
}

func (t *Tracker) CurrentTask() *Task {
	return t.currentTask
}

// RunWithPriority runs fn with the ambient priority set to level,
// restoring the previous level on every exit path.
func (t *Tracker) RunWithPriority(level PriorityLevel, fn func() error) error {
	prev := t.currentPriority
	t.currentPriority = level
	defer func() { t.currentPriority = prev }()

	return fn()
}

// enterWork saves the ambient state, the returned func restores it.
func (t *Tracker) enterWork() func() {
	prev := t.currentPriority
	return func() {
		t.currentTask = nil
		t.currentPriority = prev
	}
}
