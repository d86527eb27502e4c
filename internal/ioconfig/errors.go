package ioconfig

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

func readError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ConfigReadError,
		Msg:  "Could not read the config file at <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("config read %s: %w", path, err),
	}
}

func unmarshalError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ConfigParseError,
		Msg:  "The config file at <em>%s</em> has invalid values",
		Vars: []any{path},
		Err:  fmt.Errorf("config parse %s: %w", path, err),
	}
}

func bindError(err error) error {
	return &gn.Error{
		Code: errcode.ConfigFlagError,
		Msg:  "Could not apply command line flags",
		Err:  fmt.Errorf("config flags: %w", err),
	}
}

func writeError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ConfigWriteError,
		Msg:  "Could not create the default config at <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("config write %s: %w", path, err),
	}
}
