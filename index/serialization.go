// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/sparse"
)

// Bundle file layout, all multi-byte values little-endian:
//
//	[0:4)    magic 0x52434C31 ("RCL1")
//	[4:6)    format version
//	[6:8)    flags (bit 0: sections are zstd-compressed)
//	[8:16)   summary section length
//	[16:24)  chunks section length
//	[24:32)  vectors section length
//	[32:40)  keyword statistics section length
//	[40:64)  reserved, zero
//	[64:...) sections in header order
//	[...]    CRC32 (IEEE) over the section bytes

const (
	// BundleMagic identifies serialized index bundles (ASCII "RCL1").
	BundleMagic uint32 = 0x52434C31
	// BundleVersion is the current bundle format version.
	BundleVersion uint16 = 1

	headerSize = 64
	footerSize = 4

	flagZstd uint16 = 1 << 0

	// Section lengths beyond this are treated as corruption rather than
	// honored with a giant allocation.
	maxSectionLength = 1 << 30
)

// WriteBundle validates the bundle and writes it to w in the versioned
// binary format. The write is not atomic; stores wrap it in whatever
// publish protocol their medium needs.
func WriteBundle(w io.Writer, bundle *Bundle) error {
	if err := bundle.Validate(); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	defer enc.Close()

	sections := [4][]byte{
		enc.EncodeAll(encodeSummary(&bundle.Summary), nil),
		enc.EncodeAll(encodeChunks(bundle.Chunks), nil),
		enc.EncodeAll(encodeVectors(bundle.Vectors, bundle.Summary.Dimension), nil),
		enc.EncodeAll(sparse.MarshalStats(bundle.Sparse), nil),
	}

	var header [headerSize]byte
	binary.LittleEndian.PutUint32(header[0:], BundleMagic)
	binary.LittleEndian.PutUint16(header[4:], BundleVersion)
	binary.LittleEndian.PutUint16(header[6:], flagZstd)
	for i, section := range sections {
		binary.LittleEndian.PutUint64(header[8+8*i:], uint64(len(section)))
	}

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write bundle header: %w", err)
	}

	cw := newChecksumWriter(w)
	for _, section := range sections {
		if _, err := cw.Write(section); err != nil {
			return fmt.Errorf("failed to write bundle section: %w", err)
		}
	}

	var footer [footerSize]byte
	binary.LittleEndian.PutUint32(footer[:], cw.Sum())
	if _, err := w.Write(footer[:]); err != nil {
		return fmt.Errorf("failed to write bundle checksum: %w", err)
	}

	return nil
}

// ReadBundle reads a bundle from r, verifying the checksum and the
// bundle's internal consistency. Corruption of any kind surfaces as a
// ValidationError; a corrupt bundle must never be served.
func ReadBundle(r io.Reader) (*Bundle, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, &ValidationError{Reason: "failed to read header", Err: err}
	}

	if magic := binary.LittleEndian.Uint32(header[0:]); magic != BundleMagic {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("magic 0x%08x", magic),
			Err:    ErrInvalidMagic,
		}
	}
	if version := binary.LittleEndian.Uint16(header[4:]); version != BundleVersion {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("version %d", version),
			Err:    ErrInvalidVersion,
		}
	}
	flags := binary.LittleEndian.Uint16(header[6:])
	if flags&^flagZstd != 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown flags 0x%04x", flags)}
	}

	var lengths [4]uint64
	for i := range lengths {
		lengths[i] = binary.LittleEndian.Uint64(header[8+8*i:])
		if lengths[i] > maxSectionLength {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("section %d length %d exceeds limit", i, lengths[i]),
			}
		}
	}

	cr := newChecksumReader(r)
	var sections [4][]byte
	for i, length := range lengths {
		sections[i] = make([]byte, length)
		if _, err := io.ReadFull(cr, sections[i]); err != nil {
			return nil, &ValidationError{Reason: "truncated bundle", Err: err}
		}
	}

	var footer [footerSize]byte
	if _, err := io.ReadFull(r, footer[:]); err != nil {
		return nil, &ValidationError{Reason: "missing checksum", Err: err}
	}
	if err := cr.Verify(binary.LittleEndian.Uint32(footer[:])); err != nil {
		return nil, &ValidationError{Reason: "corrupted bundle", Err: err}
	}

	if flags&flagZstd != 0 {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create decompressor: %w", err)
		}
		defer dec.Close()

		for i := range sections {
			sections[i], err = dec.DecodeAll(sections[i], nil)
			if err != nil {
				return nil, &ValidationError{
					Reason: fmt.Sprintf("failed to decompress section %d", i),
					Err:    err,
				}
			}
		}
	}

	bundle := &Bundle{}
	if err := decodeSummary(sections[0], &bundle.Summary); err != nil {
		return nil, err
	}
	chunks, err := decodeChunks(sections[1])
	if err != nil {
		return nil, err
	}
	bundle.Chunks = chunks
	vectors, err := decodeVectors(sections[2])
	if err != nil {
		return nil, err
	}
	bundle.Vectors = vectors
	stats, err := sparse.UnmarshalStats(sections[3])
	if err != nil {
		return nil, &ValidationError{Reason: "failed to decode keyword statistics", Err: err}
	}
	bundle.Sparse = stats

	if err := bundle.Validate(); err != nil {
		return nil, err
	}

	return bundle, nil
}

func encodeSummary(summary *core.IndexSummary) []byte {
	buf := make([]byte, core.IndexSummaryMUS.Size(*summary))
	core.IndexSummaryMUS.Marshal(*summary, buf)
	return buf
}

func decodeSummary(data []byte, summary *core.IndexSummary) error {
	decoded, _, err := core.IndexSummaryMUS.Unmarshal(data)
	if err != nil {
		return &ValidationError{Reason: "failed to decode summary", Err: err}
	}
	*summary = decoded
	return nil
}

func encodeChunks(chunks []core.Chunk) []byte {
	size := varint.Int.Size(len(chunks))
	for _, chunk := range chunks {
		size += core.ChunkMUS.Size(chunk)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(chunks), buf)
	for _, chunk := range chunks {
		n += core.ChunkMUS.Marshal(chunk, buf[n:])
	}
	return buf
}

func decodeChunks(data []byte) ([]core.Chunk, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, &ValidationError{Reason: "failed to decode chunk count", Err: err}
	}
	if count < 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("negative chunk count %d", count)}
	}

	chunks := make([]core.Chunk, count)
	for i := 0; i < count; i++ {
		chunk, n1, err := core.ChunkMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("failed to decode chunk %d", i),
				Err:    err,
			}
		}
		n += n1
		chunks[i] = chunk
	}
	return chunks, nil
}

// Vectors are fixed-width: count and dimension as uint32, then every
// component as float32 bits, row-major.
func encodeVectors(vectors [][]float32, dimension int) []byte {
	buf := make([]byte, 8+4*len(vectors)*dimension)
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(dimension))
	off := 8
	for _, vector := range vectors {
		for _, v := range vector {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
			off += 4
		}
	}
	return buf
}

func decodeVectors(data []byte) ([][]float32, error) {
	if len(data) < 8 {
		return nil, &ValidationError{Reason: "vector section too short"}
	}
	count := binary.LittleEndian.Uint32(data[0:])
	dimension := binary.LittleEndian.Uint32(data[4:])

	if want := 8 + 4*uint64(count)*uint64(dimension); uint64(len(data)) != want {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("vector section holds %d bytes, expected %d", len(data), want),
		}
	}

	vectors := make([][]float32, count)
	off := 8
	for i := range vectors {
		vector := make([]float32, dimension)
		for j := range vector {
			vector[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = vector
	}
	return vectors, nil
}
