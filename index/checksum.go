package index

import (
	"hash"
	"hash/crc32"
	"io"
)

// Bundle integrity uses CRC32 (IEEE polynomial): fast, hardware-accelerated
// on modern CPUs, and good at catching storage corruption. It is not
// cryptographic; it detects accidents, not tampering.

var crcTable = crc32.MakeTable(crc32.IEEE)

// checksumWriter wraps an io.Writer and keeps a running CRC32 over
// everything written through it.
type checksumWriter struct {
	w    io.Writer
	hash hash.Hash32
}

func newChecksumWriter(w io.Writer) *checksumWriter {
	return &checksumWriter{w: w, hash: crc32.New(crcTable)}
}

func (cw *checksumWriter) Write(p []byte) (int, error) {
	if _, err := cw.hash.Write(p); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}

func (cw *checksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

// checksumReader wraps an io.Reader and keeps a running CRC32 over
// everything read through it.
type checksumReader struct {
	r    io.Reader
	hash hash.Hash32
}

func newChecksumReader(r io.Reader) *checksumReader {
	return &checksumReader{r: r, hash: crc32.New(crcTable)}
}

func (cr *checksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		if _, hashErr := cr.hash.Write(p[:n]); hashErr != nil {
			return n, hashErr
		}
	}
	return n, err
}

// Verify compares the running checksum against the expected value.
func (cr *checksumReader) Verify(expected uint32) error {
	actual := cr.hash.Sum32()
	if actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
