// Copyright 2026 The Gitpress Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/gitpress-project/gitpress/lib/codec"
)

// CompressionCodec identifies the compression applied to a cache file.
// The codec is recorded as the file's first byte so the format can
// change without breaking old caches.
type CompressionCodec byte

const (
	// CompressionNone stores the record uncompressed.
	CompressionNone CompressionCodec = 0

	// CompressionLZ4 uses LZ4 block compression: fastest, modest ratio.
	CompressionLZ4 CompressionCodec = 1

	// CompressionZstd uses zstd at the default level: slower than LZ4,
	// better ratio. This is the default for new caches.
	CompressionZstd CompressionCodec = 2
)

func (c CompressionCodec) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown(%d)", byte(c))
}

// cacheRecord is the CBOR payload of a cache file.
type cacheRecord struct {
	// Snapshot is the raw snapshot document exactly as fetched.
	Snapshot []byte `cbor:"snapshot"`

	// FetchedAt is when the snapshot was fetched, Unix seconds.
	FetchedAt int64 `cbor:"fetched_at"`

	// Digest is the BLAKE3-256 digest of Snapshot. A mismatch on read
	// means the file is corrupt and the cache is treated as absent.
	Digest []byte `cbor:"digest"`
}

// SnapshotCache keeps the last successfully fetched snapshot on disk
// so Load can degrade to stale data when the remote is unreachable.
// Cache files are CBOR records, compressed, integrity-checked with a
// BLAKE3 digest. Any read problem — missing file, unknown codec,
// truncation, digest mismatch — reads as a miss, never an error the
// store has to handle.
type SnapshotCache struct {
	path  string
	codec CompressionCodec
}

// NewSnapshotCache creates a cache at the given file path using the
// given codec for new writes. Reads accept any known codec.
func NewSnapshotCache(path string, compression CompressionCodec) *SnapshotCache {
	return &SnapshotCache{path: path, codec: compression}
}

// DefaultCachePath returns the cache file location for a blog:
// $XDG_CACHE_HOME/gitpress/<owner>-<repo>.cache with a ~/.cache
// fallback.
func DefaultCachePath(owner, repo string) string {
	cacheDirectory := os.Getenv("XDG_CACHE_HOME")
	if cacheDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("/tmp", "gitpress", owner+"-"+repo+".cache")
		}
		cacheDirectory = filepath.Join(homeDirectory, ".cache")
	}
	return filepath.Join(cacheDirectory, "gitpress", owner+"-"+repo+".cache")
}

// Put stores a raw snapshot document and its fetch time, replacing any
// previous cache atomically (write to a temp file, then rename).
func (cache *SnapshotCache) Put(rawSnapshot []byte, fetchedAt time.Time) error {
	digest := blake3.Sum256(rawSnapshot)
	record := cacheRecord{
		Snapshot:  rawSnapshot,
		FetchedAt: fetchedAt.Unix(),
		Digest:    digest[:],
	}

	payload, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("blog: encoding cache record: %w", err)
	}

	compressed, err := compress(payload, cache.codec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cache.path), 0o700); err != nil {
		return fmt.Errorf("blog: creating cache directory: %w", err)
	}

	temporary := cache.path + ".tmp"
	if err := os.WriteFile(temporary, compressed, 0o600); err != nil {
		return fmt.Errorf("blog: writing cache file: %w", err)
	}
	if err := os.Rename(temporary, cache.path); err != nil {
		os.Remove(temporary)
		return fmt.Errorf("blog: replacing cache file: %w", err)
	}
	return nil
}

// Get returns the cached raw snapshot and its fetch time. Any failure
// to produce a verified snapshot returns an error; callers treat every
// error as a cache miss.
func (cache *SnapshotCache) Get() ([]byte, time.Time, error) {
	data, err := os.ReadFile(cache.path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("blog: reading cache file: %w", err)
	}

	payload, err := decompress(data)
	if err != nil {
		return nil, time.Time{}, err
	}

	var record cacheRecord
	if err := codec.Unmarshal(payload, &record); err != nil {
		return nil, time.Time{}, fmt.Errorf("blog: decoding cache record: %w", err)
	}

	digest := blake3.Sum256(record.Snapshot)
	if !bytes.Equal(digest[:], record.Digest) {
		return nil, time.Time{}, fmt.Errorf("blog: cache digest mismatch for %s", cache.path)
	}

	return record.Snapshot, time.Unix(record.FetchedAt, 0).UTC(), nil
}

// Clear removes the cache file. A missing file is fine.
func (cache *SnapshotCache) Clear() error {
	err := os.Remove(cache.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blog: removing cache file: %w", err)
	}
	return nil
}

// --- compression framing ---

// Compressed cache layout: one codec byte, eight big-endian bytes of
// uncompressed payload length, then the compressed payload. The length
// prefix is what LZ4 block decompression needs to size its output, and
// it doubles as a sanity bound for the other codecs.

const frameHeaderSize = 1 + 8

// zstdEncoder and zstdDecoder are reused across calls; both are safe
// for concurrent use via EncodeAll/DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("blog: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("blog: zstd decoder initialization failed: " + err.Error())
	}
}

func compress(payload []byte, compression CompressionCodec) ([]byte, error) {
	framed := make([]byte, frameHeaderSize, frameHeaderSize+len(payload))
	framed[0] = byte(compression)
	binary.BigEndian.PutUint64(framed[1:frameHeaderSize], uint64(len(payload)))

	switch compression {
	case CompressionNone:
		return append(framed, payload...), nil

	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(payload))
		destination := make([]byte, bound)
		written, err := lz4.CompressBlock(payload, destination, nil)
		if err != nil {
			return nil, fmt.Errorf("blog: lz4 compress: %w", err)
		}
		if written == 0 {
			// Incompressible input — store it raw under the none codec.
			framed[0] = byte(CompressionNone)
			return append(framed, payload...), nil
		}
		return append(framed, destination[:written]...), nil

	case CompressionZstd:
		return zstdEncoder.EncodeAll(payload, framed), nil
	}
	return nil, fmt.Errorf("blog: unknown compression codec %d", compression)
}

func decompress(framed []byte) ([]byte, error) {
	if len(framed) < frameHeaderSize {
		return nil, fmt.Errorf("blog: cache file truncated (%d bytes)", len(framed))
	}
	compression := CompressionCodec(framed[0])
	uncompressedSize := binary.BigEndian.Uint64(framed[1:frameHeaderSize])
	if uncompressedSize > uint64(maxCachePayload) {
		return nil, fmt.Errorf("blog: cache payload length %d exceeds limit", uncompressedSize)
	}
	body := framed[frameHeaderSize:]

	switch compression {
	case CompressionNone:
		if uint64(len(body)) != uncompressedSize {
			return nil, fmt.Errorf("blog: cache length mismatch: header %d, body %d", uncompressedSize, len(body))
		}
		return body, nil

	case CompressionLZ4:
		destination := make([]byte, uncompressedSize)
		read, err := lz4.UncompressBlock(body, destination)
		if err != nil {
			return nil, fmt.Errorf("blog: lz4 decompress: %w", err)
		}
		if uint64(read) != uncompressedSize {
			return nil, fmt.Errorf("blog: lz4 decompress: got %d bytes, expected %d", read, uncompressedSize)
		}
		return destination, nil

	case CompressionZstd:
		payload, err := zstdDecoder.DecodeAll(body, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("blog: zstd decompress: %w", err)
		}
		if uint64(len(payload)) != uncompressedSize {
			return nil, fmt.Errorf("blog: zstd decompress: got %d bytes, expected %d", len(payload), uncompressedSize)
		}
		return payload, nil
	}
	return nil, fmt.Errorf("blog: unknown compression codec %d", compression)
}

// maxCachePayload bounds the decoded cache payload: 64 MB, matching
// the HTTP response bound.
const maxCachePayload int64 = 64 << 20
