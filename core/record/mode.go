package record

// Mode selects how encoded lines are represented on disk.
type Mode int

const (
	// Text lines are 7-bit clean: every non-ASCII rune is written as a JSON
	// \u escape.
	Text Mode = iota
	// Binary lines carry the raw UTF-8 bytes of the JSON encoding.
	Binary
)

// ModeFromBinary maps the command line --binary flag onto a Mode.
func ModeFromBinary(binary bool) Mode {
	if binary {
		return Binary
	}
	return Text
}

func (m Mode) String() string {
	if m == Binary {
		return "binary"
	}
	return "text"
}
