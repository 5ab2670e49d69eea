//go:build !amd64 && !arm64

package simd

import "runtime"

func detect() Info {
	return Info{Arch: runtime.GOARCH}
}
