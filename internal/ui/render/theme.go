package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background tcell.Color
	Foreground tcell.Color
	StatusBg   tcell.Color
	StatusFg   tcell.Color
	NoticeFg   tcell.Color
	ErrorFg    tcell.Color
	DimFg      tcell.Color
	OverlayBg  tcell.Color
	OverlayFg  tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background: tcell.ColorDefault,
		Foreground: tcell.ColorDefault,
		StatusBg:   tcell.Color236,
		StatusFg:   tcell.Color252,
		NoticeFg:   tcell.Color214,
		ErrorFg:    tcell.Color203,
		DimFg:      tcell.ColorLightSlateGray,
		OverlayBg:  tcell.Color234,
		OverlayFg:  tcell.Color252,
	}
}
