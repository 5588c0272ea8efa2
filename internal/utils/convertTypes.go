package utils

import (
	"fmt"
	"strconv"
	"strings"
)

func ConverToint(str string) (int, error) {
	portInt, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0, fmt.Errorf("error al convertir %q a entero: %w", str, err)
	}
	return portInt, nil
}
