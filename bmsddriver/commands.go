package bmsddriver

import (
	"fmt"
	"strings"
)

const (
	FRAME_START byte = 0xE6
	FRAME_ADDR  byte = 0x00

	OP_CONFIG_A5 byte = 0xA5
	OP_CONFIG_A6 byte = 0xA6
	OP_CONFIG_A7 byte = 0xA7
	OP_SET_SPEED byte = 0xA3
	OP_START     byte = 0x51
)

const (
	SWEEP_FIRST_PARAM = 0
	SWEEP_LIMIT_PARAM = 250 // exclusive
	SWEEP_STEP        = 2

	BOOTSTRAP_BURST_SIZE = 6
)

// Bootstrap frames are sent verbatim; their checksums are part of the literal.
var bootstrapCommands = [...]Command{
	{FRAME_START, FRAME_ADDR, OP_CONFIG_A5, 0x18, 0x4E},
	{FRAME_START, FRAME_ADDR, OP_CONFIG_A6, 0x18, 0x1B},
	{FRAME_START, FRAME_ADDR, OP_CONFIG_A7, 0x00, 0x80},
	{FRAME_START, FRAME_ADDR, OP_SET_SPEED, 0x00, 0xBB},
	{FRAME_START, FRAME_ADDR, OP_START, 0x00, 0xB3},
}

// Command is one serial frame: start byte, address, opcode, parameter, checksum.
type Command []byte

// Valid reports whether the trailing byte is the checksum of everything
// between the start byte and itself.
func (c Command) Valid() bool {
	if len(c) < 2 {
		return false
	}
	return c[len(c)-1] == ChecksumSequence(c[1:len(c)-1])
}

func (c Command) String() string {
	parts := make([]string, len(c))
	for i, b := range c {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// SweepCommand builds the checksummed set-speed frame for param k.
func SweepCommand(k byte) Command {
	cmd := Command{FRAME_START, FRAME_ADDR, OP_SET_SPEED, k}
	return append(cmd, ChecksumSequence(cmd[1:]))
}

// CommandTable is the ordered, read-only list of frames dispatched during a run.
type CommandTable struct {
	commands []Command
}

// BuildCommandTable returns the bootstrap block followed by the ascending speed sweep.
// Each call builds a fresh table.
func BuildCommandTable() CommandTable {
	commands := make([]Command, 0, len(bootstrapCommands)+(SWEEP_LIMIT_PARAM-SWEEP_FIRST_PARAM)/SWEEP_STEP)

	for _, cmd := range bootstrapCommands {
		commands = append(commands, append(Command(nil), cmd...))
	}
	for k := SWEEP_FIRST_PARAM; k < SWEEP_LIMIT_PARAM; k += SWEEP_STEP {
		commands = append(commands, SweepCommand(byte(k)))
	}

	return CommandTable{commands: commands}
}

func (t CommandTable) Len() int {
	return len(t.commands)
}

// At returns a copy of the i-th command.
func (t CommandTable) At(i int) Command {
	return append(Command(nil), t.commands[i]...)
}

func (t CommandTable) Commands() []Command {
	out := make([]Command, len(t.commands))
	for i := range t.commands {
		out[i] = t.At(i)
	}
	return out
}
