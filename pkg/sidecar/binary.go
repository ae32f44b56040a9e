package sidecar

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/recording"
)

// Packed-binary mark supplement layout:
//
//	magic "BMRK"
//	uint32 record count
//	per record: uint16 label length, label bytes,
//	            uint32 flag count, one byte per flag (nonzero = set)
//
// All integers big-endian.
var markMagic = []byte("BMRK")

const (
	markHeaderSize       = 8
	markRecordHeaderSize = 2
	minMarkRecordSize    = 6
)

// LoadMarkRecords reads the pre-built time-domain mark records from a
// packed-binary supplement. The file is mapped read-only and unmapped
// before return; the returned records own their own memory.
func LoadMarkRecords(path string) ([]recording.TimeMark, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError("mark supplement", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.WrapIO("map", path, err)
	}
	defer data.Unmap()

	return decodeMarkRecords(path, data)
}

func decodeMarkRecords(path string, data []byte) ([]recording.TimeMark, error) {
	if len(data) < markHeaderSize || !bytes.Equal(data[:4], markMagic) {
		return nil, errors.NewParseError("mrk", path, "bad magic, not a mark supplement", nil)
	}
	count := binary.BigEndian.Uint32(data[4:8])

	// The header count is untrusted. Cap the allocation by what the file
	// could actually hold so a corrupt count fails as a truncation error
	// on the first record instead of exhausting memory here.
	capHint := int(count)
	if max := (len(data) - markHeaderSize) / minMarkRecordSize; capHint > max {
		capHint = max
	}
	marks := make([]recording.TimeMark, 0, capHint)
	offset := markHeaderSize
	for i := uint32(0); i < count; i++ {
		if offset+markRecordHeaderSize > len(data) {
			return nil, truncated(path, i)
		}
		labelLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		offset += 2
		if offset+labelLen+4 > len(data) {
			return nil, truncated(path, i)
		}
		label := string(data[offset : offset+labelLen])
		offset += labelLen
		flagCount := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		offset += 4
		if offset+flagCount > len(data) {
			return nil, truncated(path, i)
		}
		flags := make([]bool, flagCount)
		for j := 0; j < flagCount; j++ {
			flags[j] = data[offset+j] != 0
		}
		offset += flagCount

		marks = append(marks, recording.TimeMark{Label: label, Flags: flags})
	}
	return marks, nil
}

func truncated(path string, record uint32) error {
	return errors.NewParseError("mrk", path,
		fmt.Sprintf("truncated at record %d", record), nil)
}

// EncodeMarkRecords writes mark records in the supplement layout. Used by
// tooling and tests that produce supplements for later ingest.
func EncodeMarkRecords(marks []recording.TimeMark) []byte {
	var buf bytes.Buffer
	buf.Write(markMagic)

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(marks)))
	buf.Write(header[:])

	for _, mark := range marks {
		var labelLen [2]byte
		binary.BigEndian.PutUint16(labelLen[:], uint16(len(mark.Label)))
		buf.Write(labelLen[:])
		buf.WriteString(mark.Label)

		var flagCount [4]byte
		binary.BigEndian.PutUint32(flagCount[:], uint32(len(mark.Flags)))
		buf.Write(flagCount[:])
		for _, f := range mark.Flags {
			if f {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		}
	}
	return buf.Bytes()
}
