package ioingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

var errNoNameColumn = errors.New("no scientific name column")

func fileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.IngestFileError,
		Msg:  "Could not read the checklist file at <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("ingest file %s: %w", path, err),
	}
}

func readRowError(path string, line int, err error) error {
	return &gn.Error{
		Code: errcode.IngestFileError,
		Msg:  "Could not read line %d of <em>%s</em>",
		Vars: []any{line, path},
		Err:  fmt.Errorf("ingest %s line %d: %w", path, line, err),
	}
}

func headerError(path string, header []string) error {
	msg := `The checklist at <em>%s</em> has no scientific name column.

The header must contain <em>scientificName</em> or
<em>scientific_name</em>; found: %s`

	return &gn.Error{
		Code: errcode.IngestHeaderError,
		Msg:  msg,
		Vars: []any{path, strings.Join(header, ", ")},
		Err: fmt.Errorf(
			"ingest header %s: %w", path, errNoNameColumn),
	}
}
