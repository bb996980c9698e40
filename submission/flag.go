package submission

import (
	"fmt"
	"strings"

	"ctfarena/model"
)

const (
	flagPrefix = "flag{"
	flagSuffix = "}"
)

// CheckShape trims the submission and checks the flag{...} wrapper. It is a
// cheap local pre-filter; passing it says nothing about correctness.
func CheckShape(raw string) (string, error) {
	flag := strings.TrimSpace(raw)
	if flag == "" {
		return "", model.ErrEmptyFlag
	}
	if len(flag) < len(flagPrefix)+len(flagSuffix) || !strings.HasPrefix(flag, flagPrefix) || !strings.HasSuffix(flag, flagSuffix) {
		return "", fmt.Errorf("%q: %w", flag, model.ErrMalformedFlag)
	}
	return flag, nil
}
