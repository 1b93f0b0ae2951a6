package detector

import "github.com/ccollicutt/sniflog/pkg/parser"

// LabelPair is a known pair of direction labels.
type LabelPair struct {
	Name     string // Human-readable name
	Outgoing string // Label written for the first tty
	Incoming string // Label written for the second tty
}

// DefaultLabelPairs returns the label pairs recognized without configuration.
// Pairs are ordered by preference; the sniffer's own labels come first.
func DefaultLabelPairs() []LabelPair {
	return []LabelPair{
		{
			Name:     "jpnevulator default",
			Outgoing: parser.LabelSending,
			Incoming: parser.LabelReceiving,
		},
		{
			Name:     "Transmit/receive",
			Outgoing: "TX",
			Incoming: "RX",
		},
		{
			Name:     "Write/read",
			Outgoing: "WRITE",
			Incoming: "READ",
		},
		{
			Name:     "Out/in",
			Outgoing: "OUT",
			Incoming: "IN",
		},
	}
}

// matchPair returns the first pair with a label present in seen.
func matchPair(pairs []LabelPair, seen map[string]int) (LabelPair, bool) {
	for _, p := range pairs {
		if seen[p.Outgoing] > 0 || seen[p.Incoming] > 0 {
			return p, true
		}
	}
	return LabelPair{}, false
}

// asciiRune renders b the way the sniffer's ASCII sidebar does.
func asciiRune(b byte) byte {
	if b >= 0x20 && b <= 0x7E {
		return b
	}
	return '.'
}
