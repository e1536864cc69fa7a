package main

// Key binding constants used in handleKey. Recording and navigation keys
// are owned by the recorder package.
const (
	KeyQuit           = "q"
	KeyCtrlC          = "ctrl+c"
	KeyAutoAdvance    = "a"
	KeyCycleFormat    = "f"
	KeyCycleProvider  = "p"
	KeyCustomFormat   = "c"
	KeyGenerate       = "g"
	KeyExport         = "e"
	KeyDeleteResponse = "x"
	KeyEnter          = "enter"
	KeyEsc            = "esc"
)
