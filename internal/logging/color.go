package logging

import (
	"io"
	"net"
	"strconv"
	"strings"
)

const (
	ansiReset   = "\x1b[0m"
	ansiRed     = "\x1b[31m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiBlue    = "\x1b[34m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
	ansiGray    = "\x1b[90m"
)

// colorLineWriter colors slog text lines by level and highlights value tokens.
// Params: dst receives colored output.
// Returns: io.Writer for slog.TextHandler.
type colorLineWriter struct {
	dst io.Writer
}

// Write colors one log line; lines without a known level pass through unchanged.
// Params: p one formatted log line.
// Returns: len(p) on success and write error.
func (w *colorLineWriter) Write(p []byte) (int, error) {
	line := string(p)
	base := levelColor(line)
	if base == "" {
		if _, err := io.WriteString(w.dst, line); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	body := strings.TrimSuffix(line, "\n")
	var builder strings.Builder
	builder.Grow(len(line) + 32)
	builder.WriteString(base)
	colorizeTokens(&builder, body, base)
	builder.WriteString(ansiReset)
	if len(body) != len(line) {
		builder.WriteByte('\n')
	}

	if _, err := io.WriteString(w.dst, builder.String()); err != nil {
		return 0, err
	}
	return len(p), nil
}

// levelColor picks base color from `level=` attribute.
func levelColor(line string) string {
	switch {
	case strings.Contains(line, "level=ERROR"):
		return ansiRed
	case strings.Contains(line, "level=WARN"):
		return ansiMagenta
	case strings.Contains(line, "level=INFO"):
		return ansiBlue
	case strings.Contains(line, "level=DEBUG"):
		return ansiGray
	default:
		return ""
	}
}

// colorizeTokens highlights quoted strings, IP addresses, and numbers after '='.
func colorizeTokens(builder *strings.Builder, line string, base string) {
	for idx := 0; idx < len(line); {
		switch line[idx] {
		case '"':
			end := quotedEnd(line, idx)
			writeColored(builder, line[idx:end], ansiGreen, base)
			idx = end
		case '=':
			builder.WriteByte('=')
			idx++
			if idx >= len(line) || line[idx] == '"' {
				continue
			}
			end := strings.IndexByte(line[idx:], ' ')
			if end < 0 {
				end = len(line)
			} else {
				end += idx
			}
			writeValue(builder, line[idx:end], base)
			idx = end
		default:
			builder.WriteByte(line[idx])
			idx++
		}
	}
}

// writeValue colors one bare value token by its shape.
func writeValue(builder *strings.Builder, token string, base string) {
	if net.ParseIP(token) != nil {
		writeColored(builder, token, ansiCyan, base)
		return
	}
	if _, err := strconv.ParseFloat(token, 64); err == nil {
		writeColored(builder, token, ansiYellow, base)
		return
	}
	builder.WriteString(token)
}

func writeColored(builder *strings.Builder, token string, color string, base string) {
	builder.WriteString(color)
	builder.WriteString(token)
	builder.WriteString(ansiReset)
	builder.WriteString(base)
}

// quotedEnd returns index after the closing quote of a string starting at start.
func quotedEnd(line string, start int) int {
	for idx := start + 1; idx < len(line); idx++ {
		switch line[idx] {
		case '\\':
			idx++
		case '"':
			return idx + 1
		}
	}
	return len(line)
}
