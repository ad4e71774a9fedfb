//go:build !cgo

package hal

import "fmt"

// WindowConfig controls the desktop window host.
type WindowConfig struct {
	HostConfig

	Width  int
	Height int
	Title  string
}

func RunWindow(_ WindowConfig, _ func(h HAL) func() error) error {
	return fmt.Errorf("%w: window mode requires cgo (build/run with CGO_ENABLED=1), try -headless or -term", ErrNotImplemented)
}
