package controller

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"lot-backend/pkg/apperror"
)

func ExitCode(err error) int {
	switch apperror.KindOf(err) {
	case "":
		if err == nil {
			return 0
		}
		return 1
	case apperror.Argument, apperror.Config:
		return 2
	case apperror.NotFound:
		return 3
	case apperror.Duplication:
		return 4
	default:
		return 5
	}
}

func render(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.Argument, "invalid id %q", arg)
	}
	return id, nil
}

// optional reads a flag only when the user set it.
func optional[T any](cmd *cobra.Command, name string, get func(string) (T, error)) (*T, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := get(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
