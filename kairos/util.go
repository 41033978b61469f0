//go:build linux

package kairos

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// pyBool renders b as a Python literal.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// parseInt parses the single integer a snippet printed.
func parseInt(out string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "unexpected board output %q", out)
	}
	return v, nil
}
