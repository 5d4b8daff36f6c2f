package ui

// Color accessors read the active theme, so output follows -no-color and
// NO_COLOR without callers checking either.

func ColorReset() string   { return GetCurrentTheme().Reset }
func ColorRed() string     { return GetCurrentTheme().Error }
func ColorGreen() string   { return GetCurrentTheme().Success }
func ColorYellow() string  { return GetCurrentTheme().Warning }
func ColorBlue() string    { return GetCurrentTheme().Primary }
func ColorMagenta() string { return GetCurrentTheme().Info }
func ColorCyan() string    { return GetCurrentTheme().Primary }
func ColorDim() string     { return GetCurrentTheme().Secondary }
func ColorBold() string    { return GetCurrentTheme().Bold }
