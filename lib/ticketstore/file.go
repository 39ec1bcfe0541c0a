// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/emailcommander/lib/codec"
)

// CompressionTag is the first byte of every stored file.
type CompressionTag uint8

const (
	CompressionNone CompressionTag = 0
	CompressionZstd CompressionTag = 2
)

// String returns the configuration name of the tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// ParseCompression maps a configuration name to a tag.
func ParseCompression(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "zstd", "":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

var errCorruptFile = errors.New("corrupt store file")

// codecFiles reads and writes tagged, optionally compressed CBOR files.
type codecFiles struct {
	tag     CompressionTag
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newCodecFiles(tag CompressionTag) (*codecFiles, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &codecFiles{tag: tag, encoder: encoder, decoder: decoder}, nil
}

func (f *codecFiles) close() {
	f.encoder.Close()
	f.decoder.Close()
}

// write encodes value and atomically replaces path with it.
func (f *codecFiles) write(path string, value any) error {
	payload, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if f.tag == CompressionZstd {
		payload = f.encoder.EncodeAll(payload, nil)
	}
	data := make([]byte, 0, len(payload)+1)
	data = append(data, byte(f.tag))
	data = append(data, payload...)

	temp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tempPath := temp.Name()
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}

// read decodes path into value. Files written with either compression
// are readable regardless of the store's configured tag.
func (f *codecFiles) read(path string, value any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	payload, err := f.payload(data)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := codec.Unmarshal(payload, value); err != nil {
		return fmt.Errorf("%s: decoding: %w", filepath.Base(path), err)
	}
	return nil
}

// payload strips the tag byte and decompresses.
func (f *codecFiles) payload(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", errCorruptFile)
	}
	switch tag := CompressionTag(data[0]); tag {
	case CompressionNone:
		return data[1:], nil
	case CompressionZstd:
		payload, err := f.decoder.DecodeAll(data[1:], nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", errCorruptFile, err)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("%w: compression tag %s", errCorruptFile, tag)
	}
}
