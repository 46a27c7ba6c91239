package dao

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

func init() {
	RegisterAccessor(FormatYAML, &YAMLFile{})
}

// YAMLFile is the DAO for YAML documents. Documents are converted to JSON
// in key order so the grid sees columns the way the file lists them.
type YAMLFile struct {
	FileResource
}

// Load returns the rows at src.Path.
func (y *YAMLFile) Load(ctx context.Context, src Source) (*list.Documents, error) {
	return y.load(ctx, src, decodeYAML)
}

// Save writes the rows back as block-style YAML.
func (y *YAMLFile) Save(ctx context.Context, src Source, docs *list.Documents) error {
	return y.save(ctx, src, docs, decodeYAML, encodeYAML)
}

func decodeYAML(raw []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return []byte("null"), nil
	}
	return nodeJSON(&root)
}

// nodeJSON renders a YAML node as JSON, keeping mapping key order.
func nodeJSON(n *yaml.Node) ([]byte, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return []byte("null"), nil
		}
		return nodeJSON(n.Content[0])
	case yaml.AliasNode:
		return nodeJSON(n.Alias)
	case yaml.SequenceNode:
		out := []byte("[]")
		for _, c := range n.Content {
			raw, err := nodeJSON(c)
			if err != nil {
				return nil, err
			}
			if out, err = sjson.SetRawBytes(out, "-1", raw); err != nil {
				return nil, err
			}
		}
		return out, nil
	case yaml.MappingNode:
		out := []byte("{}")
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				continue
			}
			raw, err := nodeJSON(v)
			if err != nil {
				return nil, err
			}
			if out, err = sjson.SetRawBytes(out, escapeKey(k.Value), raw); err != nil {
				return nil, err
			}
		}
		return out, nil
	case yaml.ScalarNode:
		return scalarJSON(n)
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d", n.Kind)
	}
}

func scalarJSON(n *yaml.Node) ([]byte, error) {
	switch n.ShortTag() {
	case "!!null":
		return []byte("null"), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return []byte(strconv.FormatBool(b)), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if n.ShortTag() == "!!int" {
			var i int64
			if err := n.Decode(&i); err == nil {
				return []byte(strconv.FormatInt(i, 10)), nil
			}
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return []byte(strconv.Quote(n.Value)), nil
		}
		return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return []byte(strconv.Quote(n.Value)), nil
	}
}

func encodeYAML(doc, _ []byte) ([]byte, error) {
	// JSON is YAML, so the node tree keeps key order. Flow and quoting
	// styles picked up from JSON are reset to block style.
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, err
	}
	blockStyle(&root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
