package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
)

// Format identifies an input or output format.
type Format string

const (
	FormatFormula Format = "formula"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatHCL     Format = "hcl"
)

// Formats lists every supported format.
var Formats = []string{string(FormatFormula), string(FormatJSON), string(FormatYAML), string(FormatTOML), string(FormatHCL)}

var extensions = map[string]Format{
	".dag":  FormatFormula,
	".txt":  FormatFormula,
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
	".hcl":  FormatHCL,
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "cannot infer format of %s (known extensions: .dag .txt .json .yaml .yml .toml .hcl)", path)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	if err := errs.ValidateFormat(strings.ToLower(s), Formats...); err != nil {
		return "", err
	}
	return Format(strings.ToLower(s)), nil
}

// ReadSpec decodes a graph description in the given format.
func ReadSpec(r io.Reader, format Format) (dag.Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return dag.Spec{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read input")
	}

	var doc Document
	switch format {
	case FormatFormula:
		return ParseFormula(string(data))
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&doc); errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &doc)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return dag.Spec{}, errs.New(errs.ErrCodeInvalidFormat, "unknown toml key %s", undecoded[0])
			}
		}
	case FormatHCL:
		doc, err = decodeHCL(data)
	default:
		return dag.Spec{}, errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return dag.Spec{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return doc.Spec()
}

// Read decodes and builds a graph.
func Read(r io.Reader, format Format) (*dag.DAG, error) {
	spec, err := ReadSpec(r, format)
	if err != nil {
		return nil, err
	}
	return dag.Build(spec)
}

// Import reads the graph stored at path, picking the format by extension.
func Import(path string) (*dag.DAG, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

type hclDocument struct {
	Exposure   string     `hcl:"exposure,optional"`
	Outcome    string     `hcl:"outcome,optional"`
	Latent     []string   `hcl:"latent,optional"`
	Promote    []string   `hcl:"promote,optional"`
	Bidirected [][]string `hcl:"bidirected,optional"`
	Nodes      []hclNode  `hcl:"node,block"`
}

type hclNode struct {
	ID      string   `hcl:"id,label"`
	Label   string   `hcl:"label,optional"`
	Parents []string `hcl:"parents,optional"`
	X       *float64 `hcl:"x,optional"`
	Y       *float64 `hcl:"y,optional"`
}

func decodeHCL(data []byte) (Document, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, "input.hcl")
	if diags.HasErrors() {
		return Document{}, diags
	}
	var h hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &h); diags.HasErrors() {
		return Document{}, diags
	}

	doc := Document{
		Exposure:   h.Exposure,
		Outcome:    h.Outcome,
		Latent:     h.Latent,
		Promote:    h.Promote,
		Bidirected: h.Bidirected,
	}
	for _, n := range h.Nodes {
		doc.Nodes = append(doc.Nodes, NodeDoc(n))
	}
	return doc, nil
}
