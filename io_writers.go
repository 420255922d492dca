package main

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/pingcap/errors"
)

// RecordWriter receives the raw JSON of records routed to one output stream.
type RecordWriter interface {
	Write(raw []byte) error
	Flush() error
	Close() error
}

type JSONLinesWriter struct {
	writer *bufio.Writer
	closer io.Closer
	count  int
}

func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	jw := &JSONLinesWriter{writer: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		jw.closer = c
	}
	return jw
}

// CreateJSONLinesFile truncates path and returns a writer holding it open.
func CreateJSONLinesFile(path string) (*JSONLinesWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Annotatef(err, "create output file %s", path)
	}
	return NewJSONLinesWriter(f), nil
}

// Write appends raw as one line. raw is written as given, without re-encoding.
func (w *JSONLinesWriter) Write(raw []byte) error {
	if _, err := w.writer.Write(bytes.TrimRight(raw, "\r\n")); err != nil {
		return err
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

func (w *JSONLinesWriter) Flush() error {
	return w.writer.Flush()
}

func (w *JSONLinesWriter) Count() int {
	return w.count
}

func (w *JSONLinesWriter) Close() error {
	err := w.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return err
}

// confirmOverwrite asks before truncating an existing output file. It only
// prompts on an interactive terminal and never when force is set.
func confirmOverwrite(path string, force bool) error {
	if force || !isTerminal() {
		return nil
	}
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return nil
	}
	prompt := promptui.Prompt{
		Label:     path + " exists, overwrite",
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return errors.Errorf("refusing to overwrite %s, use --force", path)
	}
	return nil
}
