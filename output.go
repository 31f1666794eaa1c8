package stega

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// OutputLevel is the amount of progress output Hide and Dig print.
type OutputLevel int

const (
	OutputNone  OutputLevel = iota // Print nothing.
	OutputSteps                    // Print each step of the operation.
	OutputInfo                     // Also print sizes, capacities and header fields.
	OutputDebug                    // Also print raw header bytes.
)

func (l OutputLevel) String() string {
	switch l {
	case OutputNone:
		return "none"
	case OutputSteps:
		return "steps"
	case OutputInfo:
		return "info"
	case OutputDebug:
		return "debug"
	default:
		return "<unknown>"
	}
}

// ParseOutputLevel parses a level name as printed by String.
func ParseOutputLevel(s string) (OutputLevel, error) {
	switch strings.ToLower(s) {
	case "none", "quiet":
		return OutputNone, nil
	case "steps", "":
		return OutputSteps, nil
	case "info":
		return OutputInfo, nil
	case "debug":
		return OutputDebug, nil
	default:
		return OutputNone, &InvalidFormatError{fmt.Sprintf("Unknown output level '%v'.", s)}
	}
}

type printer struct {
	level  OutputLevel
	logger *log.Logger
}

func newPrinter(level OutputLevel, w io.Writer) *printer {
	if w == nil {
		w = os.Stderr
	}
	return &printer{level: level, logger: log.New(w, "", 0)}
}

// printlnLvl prints a when the configured level is at least minLevel.
func (p *printer) printlnLvl(minLevel OutputLevel, a ...interface{}) {
	if p.level >= minLevel {
		p.logger.Println(a...)
	}
}

func (p *printer) printfLvl(minLevel OutputLevel, format string, a ...interface{}) {
	if p.level >= minLevel {
		p.logger.Printf(format, a...)
	}
}
