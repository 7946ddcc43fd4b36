// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/edds

package edds

const (
	maxInt32  = int(^uint32(0) >> 1)
	maxUint32 = uint64(^uint32(0))

	// MaxLevels caps the mip chain written by Write.
	MaxLevels = 11
)

func i32FromInt(n int) (int32, error) {
	if n < 0 || n > maxInt32 {
		return 0, ErrSizeOverflow
	}

	return int32(n), nil
}

func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}

// levelCount returns the full chain length for width x height, capped at
// MaxLevels.
func levelCount(width, height int) int {
	count := 1
	for width > 1 || height > 1 {
		width = max(width/2, 1)
		height = max(height/2, 1)
		count++
	}

	return min(count, MaxLevels)
}

// levelDimension halves base level times, never below 1.
func levelDimension(base, level int) int {
	return max(base>>level, 1)
}

// blockCount returns the number of 4x4 blocks covering width x height.
func blockCount(width, height int) int {
	return ((width + 3) / 4) * ((height + 3) / 4)
}
