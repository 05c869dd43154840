// Package script reads and runs stimulus scripts for an SRAM test bench.
//
// A script has one command per line. Blank lines and everything after a #
// are ignored. Numbers are decimal or 0x-prefixed hexadecimal.
//
//	reset 5
//	write 0x000 0xA
//	read  0x000 expect 0xA
//	b2b write 0x100 0x9
//	read  0x100 expect 0x9
//	idle 3
//
// A command prefixed with b2b keeps enable high after reaching SENSE, so the
// next access starts on the very next edge.
package script

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/sramsim/mem/sram/decoder"
)

// Op is the kind of a command.
type Op int

// The commands.
const (
	OpReset Op = iota
	OpIdle
	OpWrite
	OpRead
)

func (o Op) String() string {
	switch o {
	case OpReset:
		return "reset"
	case OpIdle:
		return "idle"
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	default:
		return "unknown"
	}
}

// Command is one parsed line.
type Command struct {
	Line int
	Op   Op

	Addr decoder.Address
	Data uint8

	// Cycles is the argument of reset and idle.
	Cycles int

	// Expect tells if a read carries an expected value in Data.
	Expect bool

	BackToBack bool
}

// EndToEnd exercises write, read, overwrite and a back-to-back access.
const EndToEnd = `# reset, then write/read/overwrite
reset 5
write 0x000 0xA
write 0x001 0x5
read  0x000 expect 0xA
read  0x001 expect 0x5
write 0x000 0x6
read  0x000 expect 0x6

# back-to-back write then read, no idle cycle in between
b2b write 0x100 0x9
read  0x100 expect 0x9
`

// Parse reads all commands from r.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		cmd, err := parseCommand(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		cmd.Line = line
		cmds = append(cmds, cmd)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read script")
	}

	return cmds, nil
}

// ParseString parses a script held in memory.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

func parseCommand(fields []string) (Command, error) {
	var cmd Command

	if fields[0] == "b2b" {
		cmd.BackToBack = true
		fields = fields[1:]

		if len(fields) == 0 {
			return cmd, errors.New("b2b needs a read or write")
		}
	}

	switch fields[0] {
	case "reset", "idle":
		return parseCycles(cmd, fields)
	case "write":
		return parseWrite(cmd, fields)
	case "read":
		return parseRead(cmd, fields)
	default:
		return cmd, errors.Errorf("unknown command %q", fields[0])
	}
}

func parseCycles(cmd Command, fields []string) (Command, error) {
	cmd.Op = OpIdle
	if fields[0] == "reset" {
		cmd.Op = OpReset
	}

	if cmd.BackToBack {
		return cmd, errors.Errorf("%s cannot be back-to-back", cmd.Op)
	}

	if len(fields) != 2 {
		return cmd, errors.Errorf("usage: %s CYCLES", cmd.Op)
	}

	n, err := strconv.ParseUint(fields[1], 0, 31)
	if err != nil {
		return cmd, errors.Wrapf(err, "bad cycle count %q", fields[1])
	}

	cmd.Cycles = int(n)

	return cmd, nil
}

func parseWrite(cmd Command, fields []string) (Command, error) {
	cmd.Op = OpWrite

	if len(fields) != 3 {
		return cmd, errors.New("usage: write ADDR DATA")
	}

	var err error
	if cmd.Addr, err = parseAddr(fields[1]); err != nil {
		return cmd, err
	}

	cmd.Data, err = parseData(fields[2])

	return cmd, err
}

func parseRead(cmd Command, fields []string) (Command, error) {
	cmd.Op = OpRead

	switch {
	case len(fields) == 2:
	case len(fields) == 4 && fields[2] == "expect":
		data, err := parseData(fields[3])
		if err != nil {
			return cmd, err
		}

		cmd.Data = data
		cmd.Expect = true
	default:
		return cmd, errors.New("usage: read ADDR [expect DATA]")
	}

	var err error
	cmd.Addr, err = parseAddr(fields[1])

	return cmd, err
}

func parseAddr(s string) (decoder.Address, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "bad address %q", s)
	}

	if v >= decoder.NumAddresses {
		return 0, errors.Errorf("address %s out of range [0, 0x3FF]", s)
	}

	return decoder.Address(v), nil
}

func parseData(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, errors.Wrapf(err, "bad data %q", s)
	}

	if v > 0xF {
		return 0, errors.Errorf("data %s does not fit in 4 bits", s)
	}

	return uint8(v), nil
}
