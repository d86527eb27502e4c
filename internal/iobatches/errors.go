package iobatches

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

func readError(path string, err error) error {
	return &gn.Error{
		Code: errcode.IngestBatchesConfigError,
		Msg:  "Could not read the batches manifest at <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("batches read %s: %w", path, err),
	}
}

func parseError(path string, err error) error {
	return &gn.Error{
		Code: errcode.IngestBatchesConfigError,
		Msg:  "The batches manifest at <em>%s</em> is not valid YAML",
		Vars: []any{path},
		Err:  fmt.Errorf("batches parse %s: %w", path, err),
	}
}

func validateError(path string, err error) error {
	return &gn.Error{
		Code: errcode.IngestBatchesConfigError,
		Msg:  "The batches manifest at <em>%s</em> is incomplete: %s",
		Vars: []any{path, err.Error()},
		Err:  fmt.Errorf("batches validate %s: %w", path, err),
	}
}

func writeError(path string, err error) error {
	return &gn.Error{
		Code: errcode.IngestBatchesConfigError,
		Msg:  "Could not create the batches manifest at <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("batches write %s: %w", path, err),
	}
}
