package logger

import (
	"log"
	"os"
)

// ProgressLogger logs the main steps of the layout pipeline.
var ProgressLogger = log.New(os.Stdout, "velora.progress: ", log.LstdFlags)

// WarningLogger emits a warning for each non fatal condition, like a grid item
// with an unresolvable explicit placement, a percentage resolved against an
// indefinite dimension, or a sizing loop hitting its iteration cap.
var WarningLogger = log.New(os.Stdout, "velora.warning: ", log.Lmsgprefix)
