package parser

// LineKind is the classification of a trimmed capture log line.
type LineKind int

const (
	KindBlank LineKind = iota
	KindHeader
	KindData
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindHeader:
		return "header"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Classifier decides whether a trimmed line starts a new message.
type Classifier interface {
	Classify(line string) LineKind
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(line string) LineKind

// Classify calls f(line).
func (f ClassifierFunc) Classify(line string) LineKind {
	return f(line)
}

// PositionalClassifier treats a line as a header iff it is at least
// TimestampWidth long and its third character is not a space. Dump lines
// always have a space there; dates never do.
type PositionalClassifier struct{}

// Classify implements Classifier.
func (PositionalClassifier) Classify(line string) LineKind {
	if line == "" {
		return KindBlank
	}
	if len(line) >= TimestampWidth && line[2] != ' ' {
		return KindHeader
	}
	return KindData
}

// PrefixClassifier treats a line as a header iff it begins with a parseable
// timestamp. Headers with a corrupt timestamp are then reported as bad data
// lines instead of bad headers.
type PrefixClassifier struct{}

// Classify implements Classifier.
func (PrefixClassifier) Classify(line string) LineKind {
	if line == "" {
		return KindBlank
	}
	if len(line) >= TimestampWidth {
		if _, err := ParseTimestamp(line[:TimestampWidth]); err == nil {
			return KindHeader
		}
	}
	return KindData
}
