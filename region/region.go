// Package region reads Anvil region (.mca) files: the offset table,
// the per-chunk compressed payload header, and the zlib/gzip-compressed
// NBT blob each chunk slot holds. It is adapted from the teacher's
// AnvilReader (anvil_read.go): same offset-table layout, same
// gzip-or-zlib auto-detecting inflater, generalized to the fixed-size
// scratch buffers and ForEachChunk callback shape spec.md §4.2 asks for
// instead of anvil2slime's single ReadChunk(x,z) accessor.
package region

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/astei/isomap/internal/logx"
)

const (
	slotsPerRegion = 1024
	sectorSize     = 4096

	// MaxCompressedChunk and MaxDecompressedChunk bound the scratch
	// buffers used while reading a chunk payload. A chunk that does not
	// fit is logged and skipped rather than growing the buffer
	// unboundedly (spec.md §4.2, §9 "fixed-capacity scratch buffers").
	MaxCompressedChunk   = 1 << 20
	MaxDecompressedChunk = 1 << 20
)

// ErrChunkTooLarge is returned by readChunkPayload when a chunk's
// compressed or decompressed size would overflow the fixed scratch
// buffers; the caller logs and skips it.
var ErrChunkTooLarge = errors.New("region: chunk exceeds scratch buffer capacity")

// compressionGzip and compressionZlib are the two values the 5-byte
// chunk header's compression byte may hold. The value itself is
// ignored by readChunkPayload (per spec.md §4.2, decompression
// auto-detects via a combined window) but kept for documentation.
const (
	compressionGzip byte = 1
	compressionZlib byte = 2
)

// Reader reads one open .mca file. It is not safe for concurrent use;
// spec.md §5 requires single-threaded operation with one active user of
// the scratch buffers at a time.
type Reader struct {
	file       *os.File
	offsets    [slotsPerRegion]uint32
	regionX    int
	regionZ    int
	compressed []byte
	decompress []byte
}

// Open opens the region file at path, which must be named
// r.<regionX>.<regionZ>.mca, and reads its 4096-byte offset table.
func Open(path string, regionX, regionZ int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		file:       f,
		regionX:    regionX,
		regionZ:    regionZ,
		compressed: make([]byte, MaxCompressedChunk),
		decompress: make([]byte, MaxDecompressedChunk),
	}
	if err := r.readOffsetTable(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) readOffsetTable() error {
	header := make([]byte, sectorSize)
	if _, err := io.ReadFull(r.file, header); err != nil {
		return fmt.Errorf("region: short header: %w", err)
	}
	return binary.Read(bytes.NewReader(header), binary.BigEndian, &r.offsets)
}

// slotChunkCoords maps a 0..1023 offset-table slot to absolute chunk
// coordinates, per spec.md §4.2.
func (r *Reader) slotChunkCoords(slot int) (chunkX, chunkZ int) {
	chunkX = (r.regionX << 5) + (slot & 31)
	chunkZ = (r.regionZ << 5) + (slot >> 5)
	return
}

// ChunkCallback is invoked once per present chunk slot, in slot order.
type ChunkCallback func(chunkX, chunkZ int, payload []byte)

// ForEachChunk decompresses every present chunk in the region and
// invokes fn with its raw (still NBT-encoded) bytes. Missing or
// corrupt entries are logged and skipped (empty slots at debug level);
// ForEachChunk returns no error: a region that cannot be used at all
// is already rejected by Open.
func (r *Reader) ForEachChunk(fn ChunkCallback) {
	for slot := 0; slot < slotsPerRegion; slot++ {
		word := r.offsets[slot]
		chunkX, chunkZ := r.slotChunkCoords(slot)
		if word == 0 {
			logx.Debugf("chunk (%d,%d) in %s: absent, skipping", chunkX, chunkZ, r.file.Name())
			continue
		}

		payload, err := r.readChunkPayload(word)
		if err != nil {
			logx.Warnf("chunk (%d,%d) in %s: %v", chunkX, chunkZ, r.file.Name(), err)
			continue
		}
		fn(chunkX, chunkZ, payload)
	}
}

func (r *Reader) readChunkPayload(offsetWord uint32) ([]byte, error) {
	offsetSectors := offsetWord >> 8
	sectorCount := offsetWord & 0xff
	if offsetSectors == 0 {
		return nil, errors.New("region: chunk absent")
	}

	if _, err := r.file.Seek(int64(offsetSectors)*sectorSize, io.SeekStart); err != nil {
		return nil, err
	}

	var header [5]byte
	if _, err := io.ReadFull(r.file, header[:]); err != nil {
		return nil, fmt.Errorf("short chunk header: %w", err)
	}
	length := binary.BigEndian.Uint32(header[:4])
	compression := header[4]

	maxPayload := int64(sectorCount) * sectorSize
	if int64(length) > maxPayload || length > MaxCompressedChunk {
		return nil, ErrChunkTooLarge
	}

	compressed := r.compressed[:length]
	if _, err := io.ReadFull(r.file, compressed); err != nil {
		return nil, fmt.Errorf("short chunk payload: %w", err)
	}

	return r.inflate(compressed, compression)
}

// inflate auto-detects gzip vs. zlib by content rather than trusting the
// header's compression byte, matching spec.md §4.2 ("the compression
// byte is ignored ... decompression uses a 32+MAX_WBITS window to
// accept either").
func (r *Reader) inflate(compressed []byte, _ byte) ([]byte, error) {
	var src io.Reader
	if len(compressed) >= 2 && compressed[0] == 0x1f && compressed[1] == 0x8b {
		gz, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	} else {
		zr, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	buf := r.decompress[:0]
	w := bytesWriter{buf: buf, max: MaxDecompressedChunk}
	n, err := io.CopyBuffer(&w, src, make([]byte, 32*1024))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	if n >= int64(MaxDecompressedChunk) {
		return nil, ErrChunkTooLarge
	}
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out, nil
}

// bytesWriter appends to a pre-allocated backing array without growing
// past max, so decompression of a hostile/corrupt chunk cannot allocate
// unboundedly; it is truncated instead (caller treats that as an error).
type bytesWriter struct {
	buf []byte
	max int
}

func (w *bytesWriter) Write(p []byte) (int, error) {
	if len(w.buf)+len(p) > w.max {
		room := w.max - len(w.buf)
		if room > 0 {
			w.buf = append(w.buf, p[:room]...)
		}
		return len(p), ErrChunkTooLarge
	}
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}
