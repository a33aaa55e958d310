// Package transmit encodes readings as form-urlencoded bodies and performs
// the single best-effort POST to the ingest endpoint.
package transmit

import (
	"math"
	"strconv"
	"strings"

	"sensornode/internal/models"
)

const hexDigits = "0123456789ABCDEF"

// PercentEncode escapes s for an application/x-www-form-urlencoded body.
// Unreserved characters (alphanumerics and -_.~) pass through; everything
// else, including space, becomes %HH. Spaces are never encoded as '+', the
// ingest endpoint decodes strict percent-encoding.
func PercentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xF])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	}
	return false
}

// EncodeBody renders the wire body for a reading. The schema always carries
// both numeric fields; the one not owned by the reading's source is sent as
// 0.00. NaN (no echo) is rendered literally so the server can reject it.
func EncodeBody(r models.Reading, nodeName string) string {
	distance, sound := 0.0, 0.0
	switch r.Source {
	case models.SourceDistance:
		distance = r.Value
	case models.SourceSound:
		sound = r.Value
	}

	var b strings.Builder
	b.WriteString("node_name=")
	b.WriteString(PercentEncode(nodeName))
	b.WriteString("&measured_iso=")
	b.WriteString(PercentEncode(r.MeasuredISO))
	b.WriteString("&tz_region=")
	b.WriteString(PercentEncode(r.TZRegion))
	b.WriteString("&distance_cm=")
	b.WriteString(formatFixed(distance))
	b.WriteString("&sound_db=")
	b.WriteString(formatFixed(sound))
	return b.String()
}

// formatFixed renders a value with exactly two decimals.
func formatFixed(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
