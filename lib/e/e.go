package e

import "fmt"

func Wrap(mes string, err error) error {
	return fmt.Errorf("%s: %w", mes, err)
}

// WrapIfNil wraps err unless it is nil. Meant for deferred use on named returns.
func WrapIfNil(mes string, err error) error {
	if err == nil {
		return nil
	}

	return Wrap(mes, err)
}
