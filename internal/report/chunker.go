package report

// Chunk splits s into consecutive substrings whose lengths follow widths,
// cycling through the width table until s is exhausted. The final chunk is
// truncated when s ends inside a width, so Chunk never reads past the end
// of the input. Joining the result always reproduces s.
func Chunk(s string, widths []int) []string {
	if len(widths) == 0 {
		return nil
	}
	var chunks []string
	for n, i := 0, 0; n < len(s); i++ {
		end := n + widths[i%len(widths)]
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[n:end])
		n = end
	}
	return chunks
}

// padLine brings a raw line to exactly LineWidth characters, truncating
// overlong lines and space-padding short ones.
func padLine(s string) string {
	if len(s) >= LineWidth {
		return s[:LineWidth]
	}
	b := make([]byte, LineWidth)
	copy(b, s)
	for i := len(s); i < LineWidth; i++ {
		b[i] = ' '
	}
	return string(b)
}
