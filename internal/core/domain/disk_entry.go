package domain

// DiskEntry summarizes one serialized result in the on-disk cache.
type DiskEntry struct {
	Index          SerializedDepNodeIndex
	KeyFingerprint Fingerprint
	Size           int
}
