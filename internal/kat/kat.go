// Package kat reads, writes, generates, and checks Known-Answer-Test files in the format used by the NIST Lightweight
// Cryptography project.
//
// A file is a sequence of records separated by blank lines. Each record is a list of "Name = VALUE" lines, where
// VALUE is upper-case hex for every field except Count.
package kat

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// A HashRecord is a single hash test vector.
type HashRecord struct {
	Count int
	Msg   []byte
	MD    []byte
}

// An AEADRecord is a single AEAD test vector. CT holds the ciphertext followed by the tag.
type AEADRecord struct {
	Count int
	Key   []byte
	Nonce []byte
	PT    []byte
	AD    []byte
	CT    []byte
}

// ErrMissingField is returned when a record lacks a field its kind requires.
var ErrMissingField = errors.New("kat: missing field")

// ReadHash parses hash records from r.
func ReadHash(r io.Reader) ([]HashRecord, error) {
	var records []HashRecord
	err := readRecords(r, func(f fields) error {
		var (
			rec HashRecord
			err error
		)
		if rec.Count, err = f.count(); err != nil {
			return err
		}
		if rec.Msg, err = f.bytes("Msg"); err != nil {
			return err
		}
		if rec.MD, err = f.bytes("MD"); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// ReadAEAD parses AEAD records from r.
func ReadAEAD(r io.Reader) ([]AEADRecord, error) {
	var records []AEADRecord
	err := readRecords(r, func(f fields) error {
		var (
			rec AEADRecord
			err error
		)
		if rec.Count, err = f.count(); err != nil {
			return err
		}
		for _, field := range []struct {
			name string
			dst  *[]byte
		}{
			{"Key", &rec.Key},
			{"Nonce", &rec.Nonce},
			{"PT", &rec.PT},
			{"AD", &rec.AD},
			{"CT", &rec.CT},
		} {
			if *field.dst, err = f.bytes(field.name); err != nil {
				return err
			}
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

// WriteHash writes records to w.
func WriteHash(w io.Writer, records []HashRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		_, _ = fmt.Fprintf(bw, "Count = %d\n", rec.Count)
		_, _ = fmt.Fprintf(bw, "Msg = %X\n", rec.Msg)
		_, _ = fmt.Fprintf(bw, "MD = %X\n\n", rec.MD)
	}
	return bw.Flush()
}

// WriteAEAD writes records to w.
func WriteAEAD(w io.Writer, records []AEADRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		_, _ = fmt.Fprintf(bw, "Count = %d\n", rec.Count)
		_, _ = fmt.Fprintf(bw, "Key = %X\n", rec.Key)
		_, _ = fmt.Fprintf(bw, "Nonce = %X\n", rec.Nonce)
		_, _ = fmt.Fprintf(bw, "PT = %X\n", rec.PT)
		_, _ = fmt.Fprintf(bw, "AD = %X\n", rec.AD)
		_, _ = fmt.Fprintf(bw, "CT = %X\n\n", rec.CT)
	}
	return bw.Flush()
}

// fields holds the values of a single record, along with the line it started on.
type fields struct {
	line   int
	values map[string]string
}

func (f fields) count() (int, error) {
	v, ok := f.values["Count"]
	if !ok {
		return 0, fmt.Errorf("record at line %d: %w: Count", f.line, ErrMissingField)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("record at line %d: invalid Count: %w", f.line, err)
	}
	return n, nil
}

func (f fields) bytes(name string) ([]byte, error) {
	v, ok := f.values[name]
	if !ok {
		return nil, fmt.Errorf("record at line %d: %w: %s", f.line, ErrMissingField, name)
	}
	b, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("record at line %d: invalid %s: %w", f.line, name, err)
	}
	return b, nil
}

// readRecords splits r into records and passes each to fn.
func readRecords(r io.Reader, fn func(fields) error) error {
	var (
		cur  fields
		line int
	)

	flush := func() error {
		if len(cur.values) == 0 {
			return nil
		}
		err := fn(cur)
		cur = fields{}
		return err
	}

	s := bufio.NewScanner(r)
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		name, value, ok := strings.Cut(text, "=")
		if !ok {
			return fmt.Errorf("line %d: expected NAME = VALUE, got %q", line, text)
		}

		if cur.values == nil {
			cur = fields{line: line, values: make(map[string]string)}
		}
		cur.values[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if err := s.Err(); err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	return flush()
}
