package utils

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))

	p := StringPtr("note")
	require.NotNil(t, p)
	assert.Equal(t, "note", *p)
}

func TestGenerateQRCode(t *testing.T) {
	data, err := GenerateQRCode("http://localhost:5173/ticket/42", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}
