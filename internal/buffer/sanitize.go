package buffer

// ControlPlaceholder replaces control bytes that may not live in a line.
const ControlPlaceholder = '?'

// sanitizeLine expands tabs to tabWidth spaces and replaces bytes below
// 0x20 and DEL with ControlPlaceholder. Everything else, including UTF-8
// lead and continuation bytes, passes through untouched.
func sanitizeLine(line []byte, tabWidth int) []byte {
	clean := true
	for _, c := range line {
		if c < 0x20 || c == 0x7f {
			clean = false
			break
		}
	}
	if clean {
		return line
	}

	out := make([]byte, 0, len(line)+tabWidth)
	for _, c := range line {
		switch {
		case c == '\t':
			for range tabWidth {
				out = append(out, ' ')
			}
		case c < 0x20 || c == 0x7f:
			out = append(out, ControlPlaceholder)
		default:
			out = append(out, c)
		}
	}
	return out
}
