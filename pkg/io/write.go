package io

import (
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tidydag/pkg/dag"
	errs "github.com/matzehuels/tidydag/pkg/errors"
)

// Write encodes the description of g in the given format.
func Write(w io.Writer, g *dag.DAG, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, g)
	case FormatYAML:
		return WriteYAML(w, g)
	case FormatTOML:
		return WriteTOML(w, g)
	case FormatFormula:
		_, err := io.WriteString(w, FormulaText(g))
		return err
	}
	return errs.New(errs.ErrCodeUnsupported, "cannot write %s", format)
}

// WriteJSON encodes the description of g as indented JSON.
func WriteJSON(w io.Writer, g *dag.DAG) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(g)); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// WriteYAML encodes the description of g as YAML.
func WriteYAML(w io.Writer, g *dag.DAG) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(g)); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode yaml")
	}
	return enc.Close()
}

// WriteTOML encodes the description of g as TOML.
func WriteTOML(w io.Writer, g *dag.DAG) error {
	if err := toml.NewEncoder(w).Encode(NewDocument(g)); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode toml")
	}
	return nil
}
