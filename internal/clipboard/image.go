// SPDX-License-Identifier: MPL-2.0

package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"runtime"

	"github.com/gabriel-vasile/mimetype"
)

// decodableTypes are the clipboard payloads DecodeImage understands.
var decodableTypes = []string{"image/png", "image/jpeg", "image/gif"}

// imageReader shells out to a platform tool that prints the clipboard image.
type imageReader struct {
	name string
	args []string
	// env, when set, must be non-empty for the reader to be tried.
	env string
}

func (r imageReader) available() bool {
	if r.env != "" && os.Getenv(r.env) == "" {
		return false
	}
	_, err := exec.LookPath(r.name)
	return err == nil
}

func (r imageReader) read(ctx context.Context) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.name, r.args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoImage
	}
	return out, nil
}

func platformImageReaders() []imageReader {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return []imageReader{
			{name: "wl-paste", args: []string{"--no-newline", "--type", "image/png"}, env: "WAYLAND_DISPLAY"},
			{name: "xclip", args: []string{"-selection", "clipboard", "-t", "image/png", "-o"}, env: "DISPLAY"},
		}
	case "darwin":
		return []imageReader{{name: "pngpaste", args: []string{"-"}}}
	default:
		return nil
	}
}

// DecodeImage sniffs data and decodes it into an RGBA pixel buffer.
func DecodeImage(data []byte) (*Image, error) {
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), decodableTypes...) {
		return nil, fmt.Errorf("%w (found %s)", ErrNoImage, mt.String())
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mt.String(), err)
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	return &Image{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		RGBA:   dst.Pix,
	}, nil
}
