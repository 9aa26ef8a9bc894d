package provision

// Recorder is a Reporter that keeps everything it is told, in order.
type Recorder struct {
	Results   []Result
	Entries   []Entry
	Summaries []Summary
}

// Result records a provisioning outcome.
func (r *Recorder) Result(res Result) { r.Results = append(r.Results, res) }

// Entry records an inventory entry.
func (r *Recorder) Entry(e Entry) { r.Entries = append(r.Entries, e) }

// Done records the run summary.
func (r *Recorder) Done(s Summary) { r.Summaries = append(r.Summaries, s) }
