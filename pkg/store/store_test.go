package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SomethingReallCool234/NexGen/pkg/apperr"
	"github.com/SomethingReallCool234/NexGen/pkg/features"
	"github.com/SomethingReallCool234/NexGen/pkg/model"
	"github.com/SomethingReallCool234/NexGen/pkg/pipeline"
)

func trained(t *testing.T) (*pipeline.DelayPipeline, []features.Shipment) {
	t.Helper()
	xs := make([]features.Shipment, 40)
	y := make([]int, 40)
	for i := range xs {
		xs[i] = features.Shipment{
			Carrier:              []string{"DHL", "BlueDart"}[i%2],
			Priority:             []string{"Express", "Standard", "Economy"}[i%3],
			PromisedDeliveryDays: float64(1 + i%4),
			Route:                []string{"A-B", "C-D"}[(i/2)%2],
			WeatherImpact:        []string{"None", "Storm"}[(i/4)%2],
		}
		if xs[i].WeatherImpact == "Storm" || xs[i].PromisedDeliveryDays == 1 {
			y[i] = 1
		}
	}
	p := pipeline.New(pipeline.DefaultSchema(), model.NewGradientBoostingClassifier(model.WithNEstimators(15)))
	require.NoError(t, p.Fit(context.Background(), xs, y))
	p.Meta.RunID = "run-1"
	return p, xs
}

func requireCorrupt(t *testing.T, err error, reason string) {
	t.Helper()
	var corrupt *apperr.ArtifactCorruptError
	require.True(t, errors.As(err, &corrupt), "got %T: %v", err, err)
	assert.Equal(t, reason, corrupt.Reason)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p, xs := trained(t)
	path := filepath.Join(t.TempDir(), "models", "delay_predictor.bin")

	require.NoError(t, Save(p, path))
	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, p.PredictProba(xs), got.PredictProba(xs))
	assert.Equal(t, "run-1", got.Meta.RunID)
	unseen := features.Shipment{Carrier: "FedEx", Priority: "Express", PromisedDeliveryDays: 2, Route: "X-Y", WeatherImpact: "Snow"}
	assert.Equal(t, p.PredictProbability(unseen), got.PredictProbability(unseen))

	// overwrite in place
	require.NoError(t, Save(got, path))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.bin"))
	requireCorrupt(t, err, "unreadable")
}

func TestDecodeCorrupt(t *testing.T) {
	p, _ := trained(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, p))
	good := buf.Bytes()

	flip := append([]byte(nil), good...)
	flip[len(flip)-1] ^= 0xff

	badMagic := append([]byte(nil), good...)
	copy(badMagic, "ZZZZ")

	badVersion := append([]byte(nil), good...)
	badVersion[len(magic)] = 9

	// valid header around a payload that is not snappy data
	garbage := []byte("definitely not snappy")
	header := make([]byte, headerSize)
	copy(header, magic)
	header[len(magic)] = formatVersion
	binary.BigEndian.PutUint64(header[len(magic)+1:], xxhash.Sum64(garbage))
	undecodable := append(header, garbage...)

	tests := []struct {
		name   string
		data   []byte
		reason string
	}{
		{"empty", nil, "truncated header"},
		{"truncated", good[:5], "truncated header"},
		{"bad magic", badMagic, "not a delay model artifact"},
		{"bad version", badVersion, "unsupported format version"},
		{"flipped byte", flip, "checksum mismatch"},
		{"truncated payload", good[:len(good)-3], "checksum mismatch"},
		{"garbage payload", undecodable, "decompress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data), "mem", pipeline.DefaultSchema())
			requireCorrupt(t, err, tt.reason)
		})
	}
}

func TestLoadSchemaMismatch(t *testing.T) {
	p, _ := trained(t)
	path := filepath.Join(t.TempDir(), "m.bin")
	require.NoError(t, Save(p, path))

	expected := pipeline.DefaultSchema()
	expected.Numeric = append(expected.Numeric, "Distance_KM")
	_, err := LoadSchema(path, expected)
	requireCorrupt(t, err, "incompatible schema")
}
