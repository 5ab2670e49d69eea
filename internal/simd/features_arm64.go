//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func detect() Info {
	info := Info{Arch: "arm64"}
	// ASIMD is mandatory on ARMv8 but report it for symmetry with amd64.
	if cpu.ARM64.HasASIMD {
		info.Features = append(info.Features, "asimd")
	}
	if cpu.ARM64.HasSVE {
		info.Features = append(info.Features, "sve")
	}
	// A Lane spans two 128-bit NEON registers.
	info.Native = false
	return info
}
