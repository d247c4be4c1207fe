package report

// LineWidth is the fixed length of a SWRCGSR report line. Shorter lines are
// padded and longer lines truncated before chunking.
const LineWidth = 140

// Field describes one column of the fixed-width layout: its header name and
// the number of characters it occupies.
type Field struct {
	Name  string
	Width int
}

// Positional indices into a chunked row. The classifier and normalizer
// address fields by position, not by name.
const (
	idxSubject = 0
	idxCRN     = 2
	idxTime    = 14
)

// Fields is the SWRCGSR column layout of Banner 9 output. Order is
// significant and the widths sum to LineWidth.
var Fields = []Field{
	{"Subject", 5},
	{"Number", 5},
	{"CRN", 6},
	{"Section", 4},
	{"S", 2},
	{"Campus", 4},
	{"T", 2},
	{"Title", 16},
	{"Credit", 7},
	{"Max", 5},
	{"Enrolled", 5},
	{"WCap", 5},
	{"WList", 5},
	{"Days", 8},
	{"Time", 12},
	{"Loc", 8},
	{"Rcap", 5},
	{"Full", 5},
	{"Begin/End", 12},
	{"Instructor", 19},
}

// Widths returns the width table of spec, in field order.
func Widths(spec []Field) []int {
	ws := make([]int, len(spec))
	for i, f := range spec {
		ws[i] = f.Width
	}
	return ws
}

// Names returns the header names of spec, in field order.
func Names(spec []Field) []string {
	ns := make([]string, len(spec))
	for i, f := range spec {
		ns[i] = f.Name
	}
	return ns
}

// ValidateSpec checks that a field spec can describe a full report line:
// at least one field, every width positive, and the widths summing to
// exactly LineWidth.
func ValidateSpec(spec []Field) error {
	if len(spec) == 0 {
		return &ConfigError{Field: "spec", Reason: "no fields defined"}
	}
	sum := 0
	for _, f := range spec {
		if f.Width <= 0 {
			return &ConfigError{Field: f.Name, Reason: "width must be positive"}
		}
		sum += f.Width
	}
	if sum != LineWidth {
		return &ConfigError{Field: "spec", Reason: "widths must sum to 140"}
	}
	return nil
}
