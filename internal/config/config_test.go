package config

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "defaults",
			args: nil,
			want: Options{Scale: DefaultScale},
		},
		{
			name: "positional program",
			args: []string{"games/pong.ch8"},
			want: Options{Program: "games/pong.ch8", Scale: DefaultScale},
		},
		{
			name: "rom flag wins",
			args: []string{"-rom", "a.ch8", "b.ch8"},
			want: Options{Program: "a.ch8", Scale: DefaultScale},
		},
		{
			name: "terminal",
			args: []string{"-term", "-seed", "7", "-q", "maze.asm"},
			want: Options{Program: "maze.asm", Term: true, Scale: DefaultScale, Quiet: true, Seed: 7},
		},
		{
			name: "window",
			args: []string{"-scale", "4", "-debug", "-version"},
			want: Options{Scale: 4, Debug: true, Version: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			opts, err := ParseFlags(tt.args, &out)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	var out bytes.Buffer

	_, err := ParseFlags([]string{"-term"}, &out)
	assert.True(t, errors.Is(err, ErrNoProgram))

	_, err = ParseFlags([]string{"-scale", "0", "x.ch8"}, &out)
	assert.ErrorContains(t, err, "invalid scale")

	_, err = ParseFlags([]string{"a.ch8", "b.ch8"}, &out)
	assert.ErrorContains(t, err, "unexpected arguments")

	_, err = ParseFlags([]string{"-nope"}, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "usage: chip8")

	out.Reset()
	_, err = ParseFlags([]string{"-h"}, &out)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, true))
}
