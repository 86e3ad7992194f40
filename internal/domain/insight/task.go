package insight

// Task is the unit of work handed to the worker pool: a tracked job and the
// request to generate for it.
type Task struct {
	JobID   string
	Scope   string
	Request Request
}
