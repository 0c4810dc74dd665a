package project

// Reporter receives progress notifications while a project is materialized.
type Reporter interface {
	// StepStart is called when a named step begins.
	StepStart(name, message string)
	// StepProgress reports done of total units of the current step.
	StepProgress(done, total int)
	// StepComplete is called when the current step succeeds.
	StepComplete(message string)
	// StepError is called when the current step fails.
	StepError(err error)
}

// NoOpReporter discards all progress notifications.
type NoOpReporter struct{}

func (NoOpReporter) StepStart(string, string) {}
func (NoOpReporter) StepProgress(int, int)    {}
func (NoOpReporter) StepComplete(string)      {}
func (NoOpReporter) StepError(error)          {}
