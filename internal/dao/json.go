package dao

import (
	"context"
	"errors"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

func init() {
	RegisterAccessor(FormatJSON, &JSONFile{})
}

// JSONFile is the DAO for JSON documents.
type JSONFile struct {
	FileResource
}

// Load returns the rows at src.Path.
func (j *JSONFile) Load(ctx context.Context, src Source) (*list.Documents, error) {
	return j.load(ctx, src, decodeJSON)
}

// Save writes the rows back, leaving the rest of the document untouched.
func (j *JSONFile) Save(ctx context.Context, src Source, docs *list.Documents) error {
	return j.save(ctx, src, docs, decodeJSON, encodeJSON)
}

func decodeJSON(raw []byte) ([]byte, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("invalid JSON")
	}
	return raw, nil
}

func encodeJSON(doc, _ []byte) ([]byte, error) {
	return pretty.PrettyOptions(doc, &pretty.Options{
		Width:  80,
		Indent: "  ",
	}), nil
}
