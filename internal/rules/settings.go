package rules

// Thresholds the built-in heuristics use. They are fixed heuristics by
// default and can be tuned from configuration.
const (
	// Maximum number of indexed event topics, excluding the signature.
	DefaultMaxIndexedTopics = 3
	// Revert reasons longer than one word cost an extra memory slot.
	DefaultMaxRevertStringBytes = 32
)

type Thresholds struct {
	MaxIndexedTopics     int `yaml:"maxIndexedTopics" json:"maxIndexedTopics"`
	MaxRevertStringBytes int `yaml:"maxRevertStringBytes" json:"maxRevertStringBytes"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxIndexedTopics:     DefaultMaxIndexedTopics,
		MaxRevertStringBytes: DefaultMaxRevertStringBytes,
	}
}

// WithDefaults fills unset values.
func (t Thresholds) WithDefaults() Thresholds {
	if t.MaxIndexedTopics <= 0 {
		t.MaxIndexedTopics = DefaultMaxIndexedTopics
	}
	if t.MaxRevertStringBytes <= 0 {
		t.MaxRevertStringBytes = DefaultMaxRevertStringBytes
	}
	return t
}
