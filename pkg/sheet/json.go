package sheet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadDims decodes a JSON image list from r.
//
// The input must be a JSON object with an "images" array:
//
//	{
//	  "images": [
//	    {"ref": "logo.png", "width": 320, "height": 200},
//	    {"ref": "chart.png", "width": 1024, "height": 768}
//	  ]
//	}
//
// Order is preserved; the packer processes images in this order.
// ReadDims does not validate dimensions; that is Normalize's job.
func ReadDims(r io.Reader) ([]Dim, error) {
	var data struct {
		Images []Dim `json:"images"`
	}
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return data.Images, nil
}

// ImportDims reads a JSON image list from the file at path.
func ImportDims(path string) ([]Dim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dims, err := ReadDims(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return dims, nil
}

// MarshalDocument encodes a document as JSON bytes. The format round-trips
// through [UnmarshalDocument] and is used for caching, the HTTP API, and
// the plan/render command split.
func MarshalDocument(d Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// UnmarshalDocument decodes a document from JSON bytes.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return d, nil
}

// WriteDocument encodes a document as indented JSON to w.
func WriteDocument(d Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// ImportDocument reads a document from the JSON file at path.
func ImportDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	d, err := UnmarshalDocument(data)
	if err != nil {
		return Document{}, fmt.Errorf("import %s: %w", path, err)
	}
	return d, nil
}

// ExportDocument writes a document to a JSON file at path.
func ExportDocument(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(d, f)
}
