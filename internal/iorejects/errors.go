package iorejects

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

func openError(path string, err error) error {
	return &gn.Error{
		Code: errcode.IngestRejectsSinkError,
		Msg:  "Could not open rejects file at <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("rejects open %s: %w", path, err),
	}
}

func schemaError(path string, err error) error {
	return &gn.Error{
		Code: errcode.IngestRejectsSinkError,
		Msg:  "Could not prepare rejects file at <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("rejects schema %s: %w", path, err),
	}
}

func insertError(name string, err error) error {
	return &gn.Error{
		Code: errcode.IngestRejectsSinkError,
		Msg:  "Could not record rejected name <em>%s</em>",
		Vars: []any{name},
		Err:  fmt.Errorf("rejects insert %q: %w", name, err),
	}
}

func countError(err error) error {
	return &gn.Error{
		Code: errcode.IngestRejectsSinkError,
		Msg:  "Could not read the rejects file",
		Err:  fmt.Errorf("rejects count: %w", err),
	}
}
