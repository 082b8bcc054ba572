package yaml

import (
	"io"
)

// An Encoder writes a multi-document YAML stream. Every encoded document is
// preceded by a "---" marker, so the output loads back with LoadAll or a
// Decoder.
type Encoder struct {
	w    io.Writer
	opts *Options
}

// NewEncoder returns an Encoder writing to w. opts may be nil for defaults.
func NewEncoder(w io.Writer, opts *Options) *Encoder {
	return &Encoder{w: w, opts: opts.withDefaults()}
}

// Encode dumps value as the stream's next document.
func (e *Encoder) Encode(value interface{}) error {
	text, err := dumpValue(value, e.opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(e.w, "---\n"+text); err != nil {
		return err
	}
	return nil
}

// A Decoder reads a multi-document YAML stream, returning one document's
// native value per Decode call.
type Decoder struct {
	r      io.Reader
	opts   *Options
	docs   []interface{}
	loaded bool
	err    error
}

// NewDecoder returns a Decoder reading from r. opts may be nil for
// defaults. The input is consumed and parsed on the first Decode call.
func NewDecoder(r io.Reader, opts *Options) *Decoder {
	return &Decoder{r: r, opts: opts.withDefaults()}
}

// Decode returns the next document's native value. It returns io.EOF when
// the stream has no more documents.
func (d *Decoder) Decode() (interface{}, error) {
	if !d.loaded {
		d.loaded = true
		input, err := io.ReadAll(d.r)
		if err != nil {
			d.err = err
		} else {
			d.err = eachDocument(string(input), d.opts, func(value interface{}) error {
				d.docs = append(d.docs, value)
				return nil
			})
		}
	}
	if len(d.docs) == 0 {
		if d.err != nil {
			return nil, d.err
		}
		return nil, io.EOF
	}
	value := d.docs[0]
	d.docs = d.docs[1:]
	return value, nil
}
