package idcard

import (
	"archive/zip"
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderProducesFixedSizePNG(t *testing.T) {
	data, err := Render(Card{Code: "20260314150926", FullName: "Mina Adel", Level: "one"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, cardWidth, img.Bounds().Dx())
	require.Equal(t, cardHeight, img.Bounds().Dy())
}

func TestRenderRejectsEmptyCode(t *testing.T) {
	_, err := Render(Card{FullName: "No Code"})
	require.Error(t, err)
}

func TestArchiveNamesEntriesByStudent(t *testing.T) {
	data, err := Archive([]Card{
		{Code: "100", FullName: "Mina"},
		{Code: "200", FullName: "Kirollos"},
	})
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)
	require.Equal(t, "Mina_100.png", reader.File[0].Name)
	require.Equal(t, "Kirollos_200.png", reader.File[1].Name)
}
