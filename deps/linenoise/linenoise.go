package linenoise

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/peterh/liner"
)

const clearSeq = "\x1b[H\x1b[2J"

// ErrAborted is returned by Prompt when the user presses Ctrl-C.
var ErrAborted = liner.ErrPromptAborted

type LineNoise struct {
	*liner.State
	out io.Writer
}

// New puts the terminal in raw mode. Callers must Close the result to
// restore it.
func New() *LineNoise {
	ln := &LineNoise{State: liner.NewLiner(), out: os.Stdout}
	ln.SetCtrlCAborts(true)
	ln.SetMultiLineMode(true)
	return ln
}

// HistoryLoad reads history from filepath. A missing file is not an error.
func (ln *LineNoise) HistoryLoad(filepath string) error {
	content, err := os.ReadFile(filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = ln.ReadHistory(bytes.NewReader(content))
	return err
}

func (ln *LineNoise) HistorySave(filepath string) error {
	var buf bytes.Buffer
	_, err := ln.WriteHistory(&buf)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, buf.Bytes(), 0600)
}

func (ln *LineNoise) ClearScreen() error {
	_, err := fmt.Fprint(ln.out, clearSeq)
	return err
}
