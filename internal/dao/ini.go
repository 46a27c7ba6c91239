package dao

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/gridbind/gridbind/internal/list"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/ini.v1"
)

// SectionField names the column holding the INI section of a row.
const SectionField = "Section"

func init() {
	RegisterAccessor(FormatINI, &INIFile{})
}

// INIFile is the DAO for INI files. Each section is a row; the default
// section only shows up when it holds keys.
type INIFile struct {
	FileResource
}

// Load returns one row per section.
func (i *INIFile) Load(ctx context.Context, src Source) (*list.Documents, error) {
	if src.Path != "" {
		return nil, fmt.Errorf("%w: %s", ErrPathUnsupported, FormatINI)
	}
	return i.load(ctx, src, decodeINI)
}

// Save writes every row back as a section.
func (i *INIFile) Save(ctx context.Context, src Source, docs *list.Documents) error {
	if src.Path != "" {
		return fmt.Errorf("%w: %s", ErrPathUnsupported, FormatINI)
	}
	return i.save(ctx, src, docs, decodeINI, encodeINI)
}

func decodeINI(raw []byte) ([]byte, error) {
	f, err := ini.Load(raw)
	if err != nil {
		return nil, err
	}

	out := []byte("[]")
	for _, s := range f.Sections() {
		if s.Name() == ini.DefaultSection && len(s.Keys()) == 0 {
			continue
		}
		row, err := sjson.SetBytes([]byte("{}"), SectionField, s.Name())
		if err != nil {
			return nil, err
		}
		for _, k := range s.Keys() {
			if row, err = sjson.SetRawBytes(row, escapeKey(k.Name()), iniValue(k.Value())); err != nil {
				return nil, err
			}
		}
		if out, err = sjson.SetRawBytes(out, "-1", row); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// iniValue types a raw INI value when it round-trips unchanged.
func iniValue(v string) []byte {
	if b, err := strconv.ParseBool(v); err == nil && strconv.FormatBool(b) == v {
		return []byte(v)
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil && strconv.FormatInt(n, 10) == v {
		return []byte(v)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == v {
		return []byte(v)
	}
	return []byte(strconv.Quote(v))
}

func encodeINI(doc, _ []byte) ([]byte, error) {
	f := ini.Empty()
	for n, row := range gjson.ParseBytes(doc).Array() {
		name := row.Get(SectionField).String()
		if name == "" {
			name = fmt.Sprintf("row%d", n+1)
		}
		s := f.Section(name)
		if name != ini.DefaultSection {
			var err error
			if s, err = f.NewSection(name); err != nil {
				return nil, err
			}
		}

		var err error
		row.ForEach(func(k, v gjson.Result) bool {
			if k.String() == SectionField {
				return true
			}
			val := v.String()
			if v.Type == gjson.Null {
				val = ""
			}
			_, err = s.NewKey(k.String(), val)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
