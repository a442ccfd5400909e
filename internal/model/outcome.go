package model

// FileFindings holds the findings of one rule for one file, in declaration
// order.
type FileFindings struct {
	File     string    `json:"file"`
	Findings []Finding `json:"findings"`
}

// Outcome is the complete result of one rule run: files in the order they
// were first pushed, findings per file in the order they were pushed.
type Outcome struct {
	Rule  RuleMeta       `json:"rule"`
	Files []FileFindings `json:"files"`

	index map[string]int
}

func NewOutcome(meta RuleMeta) *Outcome {
	return &Outcome{Rule: meta}
}

// Push appends a finding to file's entry, creating the entry if needed.
func (o *Outcome) Push(file string, loc Loc, snippet string) {
	f := Finding{File: file, Loc: loc, Snippet: snippet}
	if n := len(o.Files); n > 0 && o.Files[n-1].File == file {
		o.Files[n-1].Findings = append(o.Files[n-1].Findings, f)
		return
	}
	if o.index == nil {
		o.index = make(map[string]int, len(o.Files))
		for i, ff := range o.Files {
			o.index[ff.File] = i
		}
	}
	if i, ok := o.index[file]; ok {
		o.Files[i].Findings = append(o.Files[i].Findings, f)
		return
	}
	o.index[file] = len(o.Files)
	o.Files = append(o.Files, FileFindings{File: file, Findings: []Finding{f}})
}

// FileNames returns the files that carry at least one finding.
func (o *Outcome) FileNames() []string {
	out := make([]string, 0, len(o.Files))
	for _, ff := range o.Files {
		out = append(out, ff.File)
	}
	return out
}

func (o *Outcome) FindingsFor(file string) []Finding {
	for _, ff := range o.Files {
		if ff.File == file {
			return ff.Findings
		}
	}
	return nil
}

// Len is the total number of findings across files.
func (o *Outcome) Len() int {
	n := 0
	for _, ff := range o.Files {
		n += len(ff.Findings)
	}
	return n
}

func (o *Outcome) Empty() bool { return o.Len() == 0 }

// All returns every finding, file by file.
func (o *Outcome) All() []Finding {
	out := make([]Finding, 0, o.Len())
	for _, ff := range o.Files {
		out = append(out, ff.Findings...)
	}
	return out
}
