package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes the artifact: the header line followed by the document
// as indent-4 JSON with sorted keys. The output carries no trailing
// newline.
func (d *Document) Encode(w io.Writer) error {
	d.normalize()
	if err := d.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	// json.Encoder appends a newline; the artifact body ends at the
	// closing brace.
	if _, err := w.Write(bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Decode reads an artifact produced by Encode, validating the header
// line before parsing the document.
func Decode(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	body, ok := bytes.CutPrefix(raw, []byte(Header+"\n"))
	if !ok {
		return nil, fmt.Errorf("missing %q header line", Header)
	}

	var d Document
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	d.normalize()
	return &d, nil
}
