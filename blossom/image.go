package blossom

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// PrepareImage downscales png, jpeg and gif images wider than maxWidth,
// keeping the aspect ratio and the original format. Other formats, images
// that already fit, and maxWidth <= 0 return data unchanged. The returned
// name carries the extension matching the encoded data.
func PrepareImage(name string, data []byte, maxWidth int) (string, []byte, error) {
	if maxWidth <= 0 {
		return name, data, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// Not a raster format we understand (svg, webp, ...); upload as is.
		return name, data, nil
	}
	if cfg.Width <= maxWidth {
		return name, data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	ext := ""
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
		ext = ".png"
	case "gif":
		err = gif.Encode(&buf, dst, nil)
		ext = ".gif"
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
		ext = ".jpg"
	}
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return withExt(name, ext), buf.Bytes(), nil
}

func withExt(name, ext string) string {
	cur := filepath.Ext(name)
	if strings.EqualFold(cur, ext) || (ext == ".jpg" && strings.EqualFold(cur, ".jpeg")) {
		return name
	}
	return strings.TrimSuffix(name, cur) + ext
}
