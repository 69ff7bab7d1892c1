package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output format for documents.
type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
	// NDJSONFormat is JSON with one document per line.
	NDJSONFormat
)

var ErrBadFormat = errors.New("bad format")

type info struct {
	name    string
	aliases []string
	suffix  string
}

var formats = map[Format]info{
	JSONFormat:   {name: "json", aliases: []string{"j"}, suffix: ".json"},
	YAMLFormat:   {name: "yaml", aliases: []string{"y", "yml"}, suffix: ".yaml"},
	NDJSONFormat: {name: "ndjson", aliases: []string{"n", "jsonl"}, suffix: ".ndjson"},
}

// AllFormats returns the formats in preference order.
func AllFormats() []Format {
	return []Format{JSONFormat, YAMLFormat, NDJSONFormat}
}

// ParseFormat accepts a format name or one of its aliases.
func ParseFormat(v string) (Format, error) {
	for _, f := range AllFormats() {
		fi := formats[f]
		if v == fi.name {
			return f, nil
		}
		for _, a := range fi.aliases {
			if v == a {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// ForPath picks a format from the extension of a file name.
func ForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yml" {
		return YAMLFormat, true
	}
	for _, f := range AllFormats() {
		if formats[f].suffix == ext {
			return f, true
		}
	}
	return 0, false
}

func (f Format) String() string {
	if fi, ok := formats[f]; ok {
		return fi.name
	}
	return fmt.Sprintf("<format %d>", int(f))
}

func (f Format) MarshalText() ([]byte, error) {
	fi, ok := formats[f]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, int(f))
	}
	return []byte(fi.name), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

// IsJSON reports whether documents are written as JSON, one per line or not.
func (f Format) IsJSON() bool { return f == JSONFormat || f == NDJSONFormat }

// Suffix returns the file extension, including the dot.
func (f Format) Suffix() string {
	return formats[f].suffix
}
