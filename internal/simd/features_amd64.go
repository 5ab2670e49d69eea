//go:build amd64

package simd

import "golang.org/x/sys/cpu"

func detect() Info {
	info := Info{Arch: "amd64"}
	if cpu.X86.HasAVX {
		info.Features = append(info.Features, "avx")
	}
	if cpu.X86.HasAVX2 {
		info.Features = append(info.Features, "avx2")
	}
	if cpu.X86.HasFMA {
		info.Features = append(info.Features, "fma")
	}
	if cpu.X86.HasAVX512F {
		info.Features = append(info.Features, "avx512f")
	}
	info.Native = cpu.X86.HasAVX2 && cpu.X86.HasFMA
	return info
}
