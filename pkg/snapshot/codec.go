package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	lz4Extension  = ".lz4"
)

// Codec frames an encoded snapshot document on disk.
type Codec interface {
	// Encode writes the document to the writer.
	Encode(w io.Writer, doc []byte) error
	// Decode reads the whole document from the reader.
	Decode(r io.Reader) ([]byte, error)
	// Extension returns the file extension for this codec.
	Extension() string
}

// PlainCodec stores the JSON document as is.
type PlainCodec struct{}

// Encode implements Codec.Encode.
func (PlainCodec) Encode(w io.Writer, doc []byte) error {
	_, err := w.Write(doc)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode.
func (PlainCodec) Decode(r io.Reader) ([]byte, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	return doc, nil
}

// Extension implements Codec.Extension.
func (PlainCodec) Extension() string {
	return jsonExtension
}

// LZ4Codec wraps the JSON document in an LZ4 frame.
type LZ4Codec struct {
	Level lz4.CompressionLevel
}

// Encode implements Codec.Encode.
func (c LZ4Codec) Encode(w io.Writer, doc []byte) error {
	zw := lz4.NewWriter(w)

	if c.Level != 0 {
		err := zw.Apply(lz4.CompressionLevelOption(c.Level))
		if err != nil {
			return fmt.Errorf("configure lz4: %w", err)
		}
	}

	_, err := io.Copy(zw, bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("lz4 compress: %w", err)
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 close: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode.
func (LZ4Codec) Decode(r io.Reader) ([]byte, error) {
	doc, err := io.ReadAll(lz4.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}

	return doc, nil
}

// Extension implements Codec.Extension.
func (LZ4Codec) Extension() string {
	return jsonExtension + lz4Extension
}

// CodecFor picks the codec from a file name.
func CodecFor(path string) Codec {
	if strings.HasSuffix(strings.ToLower(path), lz4Extension) {
		return LZ4Codec{}
	}

	return PlainCodec{}
}
