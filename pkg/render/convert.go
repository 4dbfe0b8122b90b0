package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Output formats understood by Convert.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// Convert turns an SVG document into format. SVG input is returned unchanged;
// PDF and PNG go through rsvg-convert.
func Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatSVG, "":
		return svg, nil
	case FormatPDF:
		return rsvgConvert(ctx, svg, FormatPDF)
	case FormatPNG:
		if scale <= 0 {
			scale = 1
		}
		return rsvgConvert(ctx, svg, FormatPNG, "-z", fmt.Sprintf("%.2f", scale))
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return Convert(context.Background(), svg, FormatPDF, 0)
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return Convert(context.Background(), svg, FormatPNG, scale)
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
