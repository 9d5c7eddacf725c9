package autogrow

// Clamp maps a natural content extent to a bounded applied height and an
// overflow flag. Pure and deterministic: height is extent clamped into
// [minHeight, maxHeight], and overflowing is true only when the extent
// strictly exceeds maxHeight — content that fits exactly does not overflow.
func Clamp(extent, minHeight, maxHeight int) (height int, overflowing bool) {
	height = extent
	if height < minHeight {
		height = minHeight
	}
	if height > maxHeight {
		height = maxHeight
	}
	return height, extent > maxHeight
}
