package task

import "time"

// RepeatingTask executes a function in a fixed interval asynchronously
type RepeatingTask struct {
	fn       func()
	interval time.Duration
	done     chan struct{}
}

// NewRepeating creates a new repeating asynchronous task
func NewRepeating(fn func(), interval time.Duration) *RepeatingTask {
	return &RepeatingTask{
		fn:       fn,
		interval: interval,
	}
}

// Start starts the repeating task.
// If the task is already running, this is a no-op.
func (task *RepeatingTask) Start() {
	if task.done != nil {
		return
	}
	task.done = make(chan struct{})
	go func(done chan struct{}) {
		ticker := time.NewTicker(task.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				task.fn()
			case <-done:
				return
			}
		}
	}(task.done)
}

// Stop stops the repeating task.
// If the task is not running, this is a no-op.
// finalExec defines whether to execute the function one last time just before the task shuts down.
func (task *RepeatingTask) Stop(finalExec bool) {
	if task.done == nil {
		return
	}
	close(task.done)
	task.done = nil
	if finalExec {
		task.fn()
	}
}
