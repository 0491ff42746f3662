package editor

import (
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/memegen/pkg/errors"
)

// Format is a raster export format.
type Format string

// Export formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[Format]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatJPEG: imaging.JPEG,
	FormatGIF:  imaging.GIF,
	FormatTIFF: imaging.TIFF,
	FormatBMP:  imaging.BMP,
}

var formatAliases = map[string]Format{
	"jpg": FormatJPEG,
	"tif": FormatTIFF,
}

// ParseFormat accepts a format name ("png", "jpg"), a file extension
// (".jpeg") or a MIME type ("image/png").
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "image/")
	name = strings.TrimPrefix(name, ".")
	if f, ok := formatAliases[name]; ok {
		return f, nil
	}
	if _, ok := ValidFormats[Format(name)]; ok {
		return Format(name), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Extension returns the usual file extension of f, with the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}
