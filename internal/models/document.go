package models

import (
	"encoding/json"
	"fmt"
)

// Document is the interchange payload: either a single record or a batch.
// The shape is resolved once at decode time; downstream code always works
// with the Records slice and never branches on the wire shape again.
type Document struct {
	Records []Record

	single bool
}

// NewSingle wraps one record as a single-record document.
func NewSingle(rec Record) Document {
	return Document{Records: []Record{rec}, single: true}
}

// NewBatch wraps a record list as a batch document.
func NewBatch(records []Record) Document {
	return Document{Records: records}
}

// Single reports whether the document was a single JSON object on the wire.
func (d Document) Single() bool {
	return d.single && len(d.Records) == 1
}

// Len returns the number of records in the document.
func (d Document) Len() int {
	return len(d.Records)
}

// MarshalJSON emits a single object for a single-record document and an
// array otherwise, so a load/save cycle preserves the original wire shape.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.Single() {
		return json.Marshal(d.Records[0])
	}
	return json.Marshal(d.Records)
}

// UnmarshalJSON accepts either an array of records or one record object.
func (d *Document) UnmarshalJSON(data []byte) error {
	var list []Record
	if err := json.Unmarshal(data, &list); err == nil {
		d.Records = list
		d.single = false
		return nil
	}

	var one Record
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("document must be a record object or an array of record objects: %w", err)
	}
	d.Records = []Record{one}
	d.single = true
	return nil
}
