package render

import "image/color"

var palette = [...]color.RGBA{
	{R: 0xe4, G: 0x1a, B: 0x1c, A: 255},
	{R: 0x37, G: 0x7e, B: 0xb8, A: 255},
	{R: 0x4d, G: 0xaf, B: 0x4a, A: 255},
	{R: 0x98, G: 0x4e, B: 0xa3, A: 255},
	{R: 0xff, G: 0x7f, B: 0x00, A: 255},
	{R: 0xa6, G: 0x56, B: 0x28, A: 255},
	{R: 0xf7, G: 0x81, B: 0xbf, A: 255},
	{R: 0x99, G: 0x99, B: 0x99, A: 255},
}

// paletteColor returns a series color; indexes wrap around the palette.
func paletteColor(i int) color.RGBA {
	return palette[i%len(palette)]
}
