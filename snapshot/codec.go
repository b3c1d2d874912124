// File: codec.go
// Role: framed, snappy-compressed JSON encoding of snapshots.
// Format: [magic:4 "SRAH"][version:1][len:4][snappy(JSON):len][crc32:4], big endian.

package snapshot

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/golang/snappy"
)

var magic = [4]byte{'S', 'R', 'A', 'H'}

// maxFrame bounds the compressed body read by Decode.
const maxFrame = 1 << 30

// Encode writes s to w as one frame.
func Encode(w io.Writer, s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	body := snappy.Encode(nil, data)

	bw := bufio.NewWriter(w)
	if _, err = bw.Write(magic[:]); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	if err = bw.WriteByte(byte(Version)); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	if err = binary.Write(bw, binary.BigEndian, uint32(len(body))); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	if _, err = bw.Write(body); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}
	if err = binary.Write(bw, binary.BigEndian, crc32.ChecksumIEEE(body)); err != nil {
		return fmt.Errorf("Encode: %w", err)
	}

	return bw.Flush()
}

// Decode reads one frame written by Encode.
//
// Errors:
//   - ErrCorrupt for a bad magic, an oversized length or a checksum mismatch.
//   - ErrVersion for an unknown version byte.
//   - io.ErrUnexpectedEOF for a truncated frame.
func Decode(r io.Reader) (Snapshot, error) {
	var head [5]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return Snapshot{}, fmt.Errorf("Decode: %w", err)
	}
	if [4]byte(head[:4]) != magic {
		return Snapshot{}, fmt.Errorf("Decode: magic %q: %w", head[:4], ErrCorrupt)
	}
	if head[4] != Version {
		return Snapshot{}, fmt.Errorf("Decode: version %d: %w", head[4], ErrVersion)
	}
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return Snapshot{}, fmt.Errorf("Decode: %w", err)
	}
	if n > maxFrame {
		return Snapshot{}, fmt.Errorf("Decode: frame of %d bytes: %w", n, ErrCorrupt)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Snapshot{}, fmt.Errorf("Decode: %w", err)
	}
	var sum uint32
	if err := binary.Read(r, binary.BigEndian, &sum); err != nil {
		return Snapshot{}, fmt.Errorf("Decode: %w", err)
	}
	if sum != crc32.ChecksumIEEE(body) {
		return Snapshot{}, fmt.Errorf("Decode: checksum: %w", ErrCorrupt)
	}

	data, err := snappy.Decode(nil, body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("Decode: %w: %w", ErrCorrupt, err)
	}
	var s Snapshot
	if err = json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("Decode: %w: %w", ErrCorrupt, err)
	}

	return s, nil
}
