package bsdate

import "time"

// nptOffset is the UTC offset of Nepal Standard Time in seconds.
const nptOffset = 5*60*60 + 45*60

// NPT is Nepal Standard Time, a fixed UTC+05:45 offset with no daylight
// saving. Values in Nepal time all share this one Location.
var NPT = time.FixedZone("Asia/Kathmandu", nptOffset)

// sameZone reports whether a and b describe the same zone. Two nil
// locations (naive values) are the same zone.
func sameZone(a, b *time.Location) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.String() == b.String()
}

// offsetString formats the UTC offset of t as +HHMM, or +HH:MM when colon is
// set.
func offsetString(t time.Time, colon bool) string {
	_, off := t.Zone()
	sign := byte('+')
	if off < 0 {
		sign = '-'
		off = -off
	}
	b := []byte{sign}
	b = appendPad(b, off/3600, 2)
	if colon {
		b = append(b, ':')
	}
	b = appendPad(b, off%3600/60, 2)
	return string(b)
}
