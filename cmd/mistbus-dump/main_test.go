package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimig/mistboot/pkg/bus"
)

func TestDump(t *testing.T) {
	var trace bytes.Buffer
	tr, err := bus.NewTraceTransport(&trace)
	require.NoError(t, err)

	b := bus.New(tr)
	require.NoError(t, b.ResetControl(bus.ResetCPU|bus.HaltCPU))
	require.NoError(t, b.WriteMemory(0xF80000, []byte{1, 2, 3, 4}))
	require.NoError(t, b.ResetControl(0))

	var out bytes.Buffer
	require.NoError(t, dump(&trace, &out, true))

	s := out.String()
	assert.Contains(t, s, "RESET-CONTROL 0x06 (cpu|halt)")
	assert.Contains(t, s, "WRITE-MEMORY addr=0xF80000 len=4")
	assert.Contains(t, s, "01 02 03 04")
	assert.Contains(t, s, "3 frame(s): 1 write(s), 4 byte(s), 2 reset(s)")
}

func TestDumpRejectsUnknownFrame(t *testing.T) {
	var trace bytes.Buffer
	tr, err := bus.NewTraceTransport(&trace)
	require.NoError(t, err)
	require.NoError(t, tr.BeginFrame())
	require.NoError(t, tr.WriteByte(0x42))
	require.NoError(t, tr.EndFrame())

	var out bytes.Buffer
	assert.Error(t, dump(&trace, &out, false))
}
