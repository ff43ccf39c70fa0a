// Package format renders command output, highlighting JSON on terminals.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// maxHighlightSize is the largest document that gets highlighted; larger
// output is written plain.
const maxHighlightSize = 2 * 1024 * 1024

// JSON writes v as indented JSON followed by a newline. With color set the
// document is syntax highlighted.
func JSON(w io.Writer, v any, color bool) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}

	if !color || buf.Len() > maxHighlightSize {
		_, err := w.Write(buf.Bytes())
		return err
	}

	var highlighted bytes.Buffer
	if err := quick.Highlight(&highlighted, buf.String(), "json", highlightFormatter, highlightStyle); err != nil {
		_, err := w.Write(buf.Bytes())
		return err
	}
	_, err := w.Write(highlighted.Bytes())
	return err
}
