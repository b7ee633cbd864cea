// Package idcard renders printable student identification cards and
// bundles them into downloadable archives.
package idcard

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Card carries everything printed on one identification card. Time, Saint
// and Location come from the class the card is issued for.
type Card struct {
	Code     string
	FullName string
	Level    string
	Church   string
	Time     string
	Saint    string
	Location string
}

const (
	cardWidth  = 600
	cardHeight = 360
	qrSize     = 160
	margin     = 24
	lineHeight = 26
)

var (
	cardBackground = color.RGBA{R: 250, G: 250, B: 248, A: 255}
	borderColor    = color.RGBA{R: 120, G: 84, B: 36, A: 255}
	inkColor       = color.RGBA{R: 32, G: 32, B: 32, A: 255}
)

// Render draws the card onto a fixed-size canvas with the student code
// encoded as a QR on the right edge and returns PNG bytes.
func Render(card Card) ([]byte, error) {
	if card.Code == "" {
		return nil, fmt.Errorf("render card: empty code")
	}

	canvas := imaging.New(cardWidth, cardHeight, cardBackground)
	drawBorder(canvas)

	qr, err := qrcode.New(card.Code, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", card.Code, err)
	}
	qrImage := qr.Image(qrSize)
	qrOffset := image.Pt(cardWidth-qrSize-margin, (cardHeight-qrSize)/2)
	draw.Draw(canvas, image.Rect(qrOffset.X, qrOffset.Y, qrOffset.X+qrSize, qrOffset.Y+qrSize), qrImage, image.Point{}, draw.Over)

	lines := []string{
		card.FullName,
		"Code: " + card.Code,
	}
	if card.Level != "" {
		lines = append(lines, "Level: "+card.Level)
	}
	if card.Church != "" {
		lines = append(lines, "Church: "+card.Church)
	}
	if card.Saint != "" {
		lines = append(lines, "Class: "+card.Saint)
	}
	if card.Time != "" {
		lines = append(lines, "Time: "+card.Time)
	}
	if card.Location != "" {
		lines = append(lines, "Location: "+card.Location)
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(inkColor),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(margin+8, margin+16+i*lineHeight)
		drawer.DrawString(line)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode card for %s: %w", card.Code, err)
	}
	return buf.Bytes(), nil
}

func drawBorder(canvas draw.Image) {
	bounds := canvas.Bounds()
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for t := 0; t < 4; t++ {
			canvas.Set(x, bounds.Min.Y+t, borderColor)
			canvas.Set(x, bounds.Max.Y-1-t, borderColor)
		}
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for t := 0; t < 4; t++ {
			canvas.Set(bounds.Min.X+t, y, borderColor)
			canvas.Set(bounds.Max.X-1-t, y, borderColor)
		}
	}
}

// Archive renders every card and packs the PNGs into a zip named by
// student, one file per card.
func Archive(cards []Card) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, card := range cards {
		png, err := Render(card)
		if err != nil {
			return nil, err
		}
		entry, err := writer.Create(fmt.Sprintf("%s_%s.png", card.FullName, card.Code))
		if err != nil {
			return nil, fmt.Errorf("create archive entry for %s: %w", card.Code, err)
		}
		if _, err := entry.Write(png); err != nil {
			return nil, fmt.Errorf("write archive entry for %s: %w", card.Code, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
