// sample.go: the fixed 16-byte record exchanged with consumers

package simtemp

import "encoding/binary"

// SampleSize is the wire size of a Sample in bytes: 8 (timestamp_ns) +
// 4 (temp_mC) + 4 (flags), little-endian, no padding.
const SampleSize = 16

// Flag bits for Sample.Flags. Bits 2..31 are reserved and must stay zero.
const (
	// FlagNewSample is set on every Sample the Producer emits.
	FlagNewSample uint32 = 1 << 0
	// FlagThresholdCrossed is set only on the Sample that represents a
	// transition across the configured threshold.
	FlagThresholdCrossed uint32 = 1 << 1
)

// Sample is the fixed-layout record delivered to consumers. Its wire
// representation is exactly SampleSize bytes, little-endian, packed:
//
//	offset 0  size 8  timestamp_ns   u64
//	offset 8  size 4  temp_mC        i32
//	offset 12 size 4  flags          u32
type Sample struct {
	TimestampNs uint64
	TempMC      int32
	Flags       uint32
}

// Above reports whether the Sample's temperature exceeds threshold under
// the strict-greater-than rule used by the Threshold Detector (§4.3).
func (s Sample) Above(thresholdMC int32) bool {
	return s.TempMC > thresholdMC
}

// PutBytes encodes s into dst, which must be at least SampleSize bytes.
// It never fails; callers that need an IO_ERROR boundary (§6) do so at
// the point where the encoded bytes are copied to an external sink, not
// here — see Device.WriteSampleTo for that boundary.
func (s Sample) PutBytes(dst []byte) {
	_ = dst[:SampleSize] // bounds check hint, panics like a slice index would
	binary.LittleEndian.PutUint64(dst[0:8], s.TimestampNs)
	binary.LittleEndian.PutUint32(dst[8:12], uint32(s.TempMC))
	binary.LittleEndian.PutUint32(dst[12:16], s.Flags)
}

// Bytes returns the SampleSize-byte wire encoding of s.
func (s Sample) Bytes() [SampleSize]byte {
	var out [SampleSize]byte
	s.PutBytes(out[:])
	return out
}

// DecodeSample parses a Sample out of src, which must hold at least
// SampleSize bytes. It is the inverse of Bytes/PutBytes and is used by
// consumers (and tests) that only hold the raw wire bytes.
func DecodeSample(src []byte) (Sample, error) {
	if len(src) < SampleSize {
		return Sample{}, ErrInvalidArgument
	}
	return Sample{
		TimestampNs: binary.LittleEndian.Uint64(src[0:8]),
		TempMC:      int32(binary.LittleEndian.Uint32(src[8:12])),
		Flags:       binary.LittleEndian.Uint32(src[12:16]),
	}, nil
}
