// Package store writes and reads the trained delay pipeline as a single file.
//
// File layout:
//
//	magic "NXDP" | format version (1 byte) | xxhash64 of payload (8 bytes, big endian) | payload
//
// The payload is the gob encoding of the pipeline, snappy-compressed.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
	"github.com/SomethingReallCool234/NexGen/pkg/pipeline"
)

const (
	magic         = "NXDP"
	formatVersion = 1
	headerSize    = len(magic) + 1 + 8
)

// Save writes p to path, creating the parent directory. The file is replaced
// atomically so a reader never sees a partial artifact.
func Save(p *pipeline.DelayPipeline, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create model directory")
	}
	tmp, err := os.CreateTemp(dir, ".delay-model-*")
	if err != nil {
		return errors.Wrap(err, "create temp artifact")
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, p); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp artifact")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "move artifact into place")
	}
	return nil
}

// Load reads the artifact at path and checks it against the delay model schema.
func Load(path string) (*pipeline.DelayPipeline, error) {
	return LoadSchema(path, pipeline.DefaultSchema())
}

// LoadSchema reads the artifact at path and checks it against expected.
func LoadSchema(path string, expected pipeline.Schema) (*pipeline.DelayPipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &apperr.ArtifactCorruptError{Path: path, Reason: "unreadable", Err: err}
	}
	defer f.Close()
	return Decode(f, path, expected)
}

// Encode writes the artifact bytes for p to w.
func Encode(w io.Writer, p *pipeline.DelayPipeline) error {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(p); err != nil {
		return errors.Wrap(err, "encode pipeline")
	}
	payload := snappy.Encode(nil, raw.Bytes())

	header := make([]byte, headerSize)
	copy(header, magic)
	header[len(magic)] = formatVersion
	binary.BigEndian.PutUint64(header[len(magic)+1:], xxhash.Sum64(payload))

	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "write artifact header")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "write artifact payload")
	}
	return nil
}

// Decode reads an artifact from r. name is only used in error messages.
// Every failure is an *apperr.ArtifactCorruptError.
func Decode(r io.Reader, name string, expected pipeline.Schema) (*pipeline.DelayPipeline, error) {
	corrupt := func(reason string, err error) error {
		return &apperr.ArtifactCorruptError{Path: name, Reason: reason, Err: err}
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, corrupt("unreadable", err)
	}
	if len(buf) < headerSize {
		return nil, corrupt("truncated header", nil)
	}
	if string(buf[:len(magic)]) != magic {
		return nil, corrupt("not a delay model artifact", nil)
	}
	if v := buf[len(magic)]; v != formatVersion {
		return nil, corrupt("unsupported format version", errors.Errorf("version %d", v))
	}
	payload := buf[headerSize:]
	if binary.BigEndian.Uint64(buf[len(magic)+1:headerSize]) != xxhash.Sum64(payload) {
		return nil, corrupt("checksum mismatch", nil)
	}

	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, corrupt("decompress", err)
	}
	var p pipeline.DelayPipeline
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&p); err != nil {
		return nil, corrupt("decode", err)
	}
	if err := p.Validate(expected); err != nil {
		return nil, corrupt("incompatible schema", err)
	}
	return &p, nil
}
