// SPDX-License-Identifier: MPL-2.0

// Package clipboard gives scripts access to the system clipboard.
//
// Text goes through github.com/atotto/clipboard. Images are read by the
// platform's clipboard tool (wl-paste or xclip on Linux, pngpaste on macOS)
// and decoded into a raw RGBA pixel buffer. Every call acquires and releases
// the clipboard independently; nothing is cached between calls.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var (
	// ErrUnsupported is returned when the platform has no usable clipboard.
	ErrUnsupported = errors.New("clipboard not supported on this system")
	// ErrNoImage is returned when the clipboard holds no decodable image.
	ErrNoImage = errors.New("clipboard does not contain an image")
)

type (
	// Image is a decoded clipboard image. RGBA holds Width*Height*4 bytes,
	// row-major, non-premultiplied.
	Image struct {
		Width  int
		Height int
		RGBA   []byte
	}

	// Backend is the clipboard seen by the clipboard module.
	Backend interface {
		ReadText() (string, error)
		WriteText(text string) error
		ReadImage(ctx context.Context) (*Image, error)
	}

	systemBackend struct {
		readers []imageReader
	}
)

// System returns the backend bound to the real system clipboard.
func System() Backend {
	return &systemBackend{readers: platformImageReaders()}
}

func (b *systemBackend) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard text: %w", err)
	}
	return text, nil
}

func (b *systemBackend) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard text: %w", err)
	}
	return nil
}

func (b *systemBackend) ReadImage(ctx context.Context) (*Image, error) {
	if len(b.readers) == 0 {
		return nil, ErrUnsupported
	}

	var errs []error
	for _, r := range b.readers {
		if !r.available() {
			continue
		}
		data, err := r.read(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.name, err))
			continue
		}
		return DecodeImage(data)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no clipboard image tool found", ErrUnsupported)
	}
	return nil, errors.Join(errs...)
}
