package codec

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
)

// Compress deflates data at flate.BestSpeed. Compression is only worth the
// CPU cost above the configured threshold, and is only adopted by the
// caller if the result is strictly smaller than the input — this function
// always compresses; the threshold/adopt decision is the caller's.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		return nil, fmt.Errorf("codec: new flate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("codec: flate write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: flate close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates data produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("codec: flate read: %w", err)
	}
	return out, nil
}
