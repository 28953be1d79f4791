package sink

import (
	"bytes"

	"github.com/matzehuels/sheetpack/pkg/sheet"
)

// RenderJSON exports the document as an indented JSON byte slice. The
// format round-trips through [sheet.UnmarshalDocument], so a plan can
// be exported, stored, and rendered later without repacking.
func RenderJSON(d sheet.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := sheet.WriteDocument(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
