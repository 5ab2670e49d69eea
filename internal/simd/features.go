package simd

import "strings"

// Info describes the vector hardware visible to the process.
type Info struct {
	Arch     string
	Features []string
	// Native reports whether the CPU has a 256-bit (or wider) float unit that
	// a Lane maps onto one-to-one.
	Native bool
}

// String renders the feature list for logs.
func (i Info) String() string {
	if len(i.Features) == 0 {
		return i.Arch + " (scalar)"
	}
	return i.Arch + " (" + strings.Join(i.Features, ",") + ")"
}

var detected = detect()

// Features returns the detected CPU vector features.
func Features() Info {
	return detected
}
