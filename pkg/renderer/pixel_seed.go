package renderer

// pixelSeed derives a deterministic RNG seed from a pixel's coordinates, the
// sample index being taken, and the run's base seed. Seeding per pixel and
// per sample (instead of once per worker, as the tile-ID seeding below still
// does for tile-level bookkeeping) keeps a render bit-identical regardless
// of how many workers or tiles the image is split across.
func pixelSeed(x, y, sample int, runSeed int64) int64 {
	h := uint64(runSeed) + 0x9E3779B97F4A7C15
	h ^= uint64(uint32(x)) * 0xBF58476D1CE4E5B9
	h = (h << 31) | (h >> 33)
	h ^= uint64(uint32(y)) * 0x94D049BB133111EB
	h = (h << 29) | (h >> 35)
	h ^= uint64(uint32(sample)) * 0xD6E8FEB86659FD93
	h ^= h >> 32
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 29
	if h == 0 {
		h = 1
	}
	return int64(h)
}
