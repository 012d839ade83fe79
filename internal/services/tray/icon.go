package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"fyne.io/fyne/v2"
)

const (
	iconSize         = 64
	iconResourceName = "ctrlcc.png"
)

var iconColor = color.RGBA{R: 40, G: 110, B: 140, A: 255}

// renderIcon draws the solid tray icon and encodes it as PNG.
func renderIcon() ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: iconColor}, image.Point{}, draw.Src)
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, canvas); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// iconResource wraps the rendered icon for fyne.
func iconResource() (fyne.Resource, error) {
	content, err := renderIcon()
	if err != nil {
		return nil, err
	}
	return fyne.NewStaticResource(iconResourceName, content), nil
}
