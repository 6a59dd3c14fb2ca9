package wad

// Outcome is how a single record fared during Decode.
type Outcome uint8

const (
	OutcomeLoaded Outcome = iota
	OutcomeErrored
	OutcomeUnknownType
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeErrored:
		return "errored"
	case OutcomeUnknownType:
		return "unknown-type"
	}
	return "invalid"
}

// RecordReport describes one decoded record.
type RecordReport struct {
	Entry   *Entry
	Outcome Outcome
	Err     error
}

// Report lists the outcome of every record of one Decode call, in stream order.
type Report struct {
	Records []RecordReport
}

func (r *Report) add(e *Entry, o Outcome, err error) {
	r.Records = append(r.Records, RecordReport{Entry: e, Outcome: o, Err: err})
}

// Count returns how many records had outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, rec := range r.Records {
		if rec.Outcome == o {
			n++
		}
	}
	return n
}

// Clean reports whether every record loaded with a known type.
func (r *Report) Clean() bool {
	return r.Count(OutcomeLoaded) == len(r.Records)
}

// Errors returns the records that did not load cleanly.
func (r *Report) Errors() []RecordReport {
	var out []RecordReport
	for _, rec := range r.Records {
		if rec.Outcome != OutcomeLoaded {
			out = append(out, rec)
		}
	}
	return out
}
