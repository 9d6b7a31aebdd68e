// Package image stores dropped images in the screenshot folder,
// compressed toward the configured size budget, and hands back the
// markdown link to paste into a note.
package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"

	"github.com/nfnt/resize"

	"collector/internal/config"
)

// maxWidth caps stored images; anything wider gets scaled down first.
const maxWidth = 1920

// Processed describes a stored image, ready for the frontend to insert.
type Processed struct {
	Markdown  string `json:"markdown"`
	SavedPath string `json:"saved_path"`
	Filename  string `json:"filename"`
}

// IsSupported reports whether the filename looks like an image we decode.
func IsSupported(path string) bool {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png", "jpg", "jpeg", "gif":
		return true
	}
	return false
}

// SaveFile compresses and stores an image file from disk.
func SaveFile(sourcePath string, s config.Settings) (Processed, error) {
	if !IsSupported(sourcePath) {
		return Processed{}, fmt.Errorf("unsupported file type (supported: PNG, JPG, JPEG, GIF)")
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return Processed{}, fmt.Errorf("read image: %w", err)
	}

	return store(data, filepath.Ext(sourcePath), s)
}

// SaveBytes decodes a base64 payload (the drag-and-drop path when no file
// path is available) and stores it like SaveFile.
func SaveBytes(bytesBase64, originalFilename string, s config.Settings) (Processed, error) {
	if !IsSupported(originalFilename) {
		return Processed{}, fmt.Errorf("unsupported file type (supported: PNG, JPG, JPEG, GIF)")
	}

	data, err := base64.StdEncoding.DecodeString(bytesBase64)
	if err != nil {
		return Processed{}, fmt.Errorf("decode base64: %w", err)
	}

	return store(data, filepath.Ext(originalFilename), s)
}

func store(data []byte, ext string, s config.Settings) (Processed, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Processed{}, fmt.Errorf("decode image: %w", err)
	}

	if err := os.MkdirAll(s.ScreenshotPath, 0755); err != nil {
		return Processed{}, fmt.Errorf("create screenshot directory: %w", err)
	}

	filename := Filename(s.ImageFilename, ext, time.Now())
	outPath := filepath.Join(s.ScreenshotPath, filename)

	encoded, finalPath, err := compress(img, outPath, s.CompressionMaxKB)
	if err != nil {
		return Processed{}, err
	}

	if err := os.WriteFile(finalPath, encoded, 0644); err != nil {
		return Processed{}, fmt.Errorf("write image: %w", err)
	}

	finalName := filepath.Base(finalPath)
	return Processed{
		Markdown:  MarkdownLink(finalName, s),
		SavedPath: finalPath,
		Filename:  finalName,
	}, nil
}

// compress scales oversized images down and encodes toward the size
// budget: PNG stays PNG when it fits, otherwise a JPEG quality walk from
// 85 down in steps of 5, giving up below 30 and keeping whatever it has.
// Returns the encoded bytes and the path (extension may flip to .jpg).
func compress(img image.Image, outPath string, maxKB int) ([]byte, string, error) {
	maxBytes := maxKB * 1024

	if img.Bounds().Dx() > maxWidth {
		img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	}

	if strings.EqualFold(filepath.Ext(outPath), ".png") {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		if buf.Len() <= maxBytes {
			return buf.Bytes(), outPath, nil
		}
		// Too big as PNG, fall through to JPEG.
	}

	jpgPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".jpg"
	for quality := 85; ; quality -= 5 {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		if buf.Len() <= maxBytes || quality < 30 {
			return buf.Bytes(), jpgPath, nil
		}
	}
}

// Filename expands the image filename template and ensures an extension;
// templates without one default to .jpg.
func Filename(template, ext string, now time.Time) string {
	r := strings.NewReplacer(
		"YYYY", now.Format("2006"),
		"MM", now.Format("01"),
		"DD", now.Format("02"),
		"HH", now.Format("15"),
		"mm", now.Format("04"),
		"ss", now.Format("05"),
	)
	name := r.Replace(template)

	if !strings.Contains(name, ".") {
		if ext == "" {
			ext = ".jpg"
		}
		name += strings.ToLower(ext)
	}
	return name
}

// MarkdownLink renders the wikilink for a stored image, with the
// configured display width when one is set.
func MarkdownLink(filename string, s config.Settings) string {
	width := strings.TrimSpace(s.DefaultImageWidth)
	if width == "" {
		return fmt.Sprintf("![[%s]]", filename)
	}
	return fmt.Sprintf("![[%s|%s]]", filename, width)
}
