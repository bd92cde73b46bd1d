// renderer/capture.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mmp/spritebatch/util"
)

const (
	captureMagic   = "spritebatch-capture"
	CaptureVersion = 1
)

// Capture is the serialized form of a recorded CommandBuffer.
type Capture struct {
	Magic    string
	Version  int
	Created  time.Time
	Note     string
	Commands []uint32
}

// SaveCapture writes the commands recorded in cb to w as a zstd-compressed
// msgpack Capture.
func SaveCapture(w io.Writer, cb *CommandBuffer, note string) error {
	c := Capture{
		Magic:    captureMagic,
		Version:  CaptureVersion,
		Created:  time.Now(),
		Note:     note,
		Commands: cb.Buf,
	}
	return util.EncodeObject(w, c)
}

// LoadCapture reads a capture written by SaveCapture and returns it along
// with a CommandBuffer holding its commands.
func LoadCapture(r io.Reader) (*CommandBuffer, Capture, error) {
	var c Capture
	if err := util.DecodeObject(r, &c); err != nil {
		return nil, Capture{}, fmt.Errorf("%w: %w", ErrBadCapture, err)
	}
	if c.Magic != captureMagic {
		return nil, Capture{}, fmt.Errorf("%w: not a sprite batch capture", ErrBadCapture)
	}
	if c.Version != CaptureVersion {
		return nil, Capture{}, fmt.Errorf("%w: version %d, expected %d", ErrBadCapture, c.Version, CaptureVersion)
	}
	cb := &CommandBuffer{Buf: c.Commands}
	c.Commands = nil
	return cb, c, nil
}

func SaveCaptureFile(path string, cb *CommandBuffer, note string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := SaveCapture(f, cb, note); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadCaptureFile(path string) (*CommandBuffer, Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Capture{}, err
	}
	defer f.Close()

	return LoadCapture(f)
}
