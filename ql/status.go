package ql

import (
	"fmt"
	"io"
	"strings"
)

// StatusSize is the length of a status packet in bytes.
const StatusSize = 32

// Status is a decoder for the status packet returned by the printer.
type Status [StatusSize]byte

var statusModels = map[byte]string{
	0x38: "QL-800",
	0x39: "QL-810W",
	0x41: "QL-820NWB",
	0x43: "QL-1100",
	0x44: "QL-1110NWB",
	0x45: "QL-1115NWB",
}

// Model returns the name of the model that has sent the status,
// or an empty string if the model code is unknown.
func (s *Status) Model() string { return statusModels[s[4]] }

func (s *Status) MediaWidthMM() int  { return int(s[10]) }
func (s *Status) MediaLengthMM() int { return int(s[17]) }

type StatusType byte

const (
	StatusTypeReplyToRequest    StatusType = 0x00
	StatusTypePrintingCompleted StatusType = 0x01
	StatusTypeErrorOccurred     StatusType = 0x02
	StatusTypeTurnedOff         StatusType = 0x04
	StatusTypeNotification      StatusType = 0x05
	StatusTypePhaseChange       StatusType = 0x06
)

var statusTypeNames = map[StatusType]string{
	StatusTypeReplyToRequest:    "reply to status request",
	StatusTypePrintingCompleted: "printing completed",
	StatusTypeErrorOccurred:     "error occurred",
	StatusTypeTurnedOff:         "turned off",
	StatusTypeNotification:      "notification",
	StatusTypePhaseChange:       "phase change",
}

func (s *Status) Type() StatusType { return StatusType(s[18]) }

type StatusPhase byte

const (
	StatusPhaseReceiving StatusPhase = 0x00
	StatusPhasePrinting  StatusPhase = 0x01
)

func (s *Status) Phase() StatusPhase { return StatusPhase(s[19]) }

var (
	errorInfo1 = [8]string{
		"no media", "end of media", "cutter jam", "?", "printer in use",
		"printer turned off", "high-voltage adapter", "fan motor error"}
	errorInfo2 = [8]string{
		"replace media", "expansion buffer full", "communication error",
		"communication buffer full", "cover open", "cancel key",
		"media cannot be fed", "system error"}
)

func decodeBitfieldErrors(b byte, errors [8]string) []string {
	var result []string
	for i := uint(0); i < 8; i++ {
		if b&(1<<i) != 0 {
			result = append(result, errors[i])
		}
	}
	return result
}

// Errors returns descriptions of all error bits set in the status.
func (s *Status) Errors() (errors []string) {
	errors = append(errors, decodeBitfieldErrors(s[8], errorInfo1)...)
	errors = append(errors, decodeBitfieldErrors(s[9], errorInfo2)...)
	return
}

// -----------------------------------------------------------------------------

// String implements the Stringer interface.
func (s *Status) String() string {
	var b strings.Builder
	s.Dump(&b)
	return b.String()
}

// Dump writes the status data to an io.Writer in a human-readable format.
func (s *Status) Dump(f io.Writer) {
	if m := s.Model(); m != "" {
		fmt.Fprintln(f, "model:", m)
	} else {
		fmt.Fprintln(f, "model:", s[4])
	}

	for _, e := range decodeBitfieldErrors(s[8], errorInfo1) {
		fmt.Fprintln(f, "error 1:", e)
	}
	for _, e := range decodeBitfieldErrors(s[9], errorInfo2) {
		fmt.Fprintln(f, "error 2:", e)
	}

	fmt.Fprintln(f, "media width:", s[10], "mm")

	switch t := s[11]; t {
	case 0x00:
		fmt.Fprintln(f, "media: no media")
	case 0x4a, 0x0a: // 0x4a = J, in reality we get 0x0a.
		fmt.Fprintln(f, "media: continuous length tape")
	case 0x4b, 0x0b: // 0x4b = K, in reality we get 0x0b.
		fmt.Fprintln(f, "media: die-cut labels")
	default:
		fmt.Fprintln(f, "media:", t)
	}

	fmt.Fprintln(f, "mode:", s[15])
	fmt.Fprintln(f, "media length:", s[17], "mm")

	if name, ok := statusTypeNames[s.Type()]; ok {
		fmt.Fprintln(f, "status type:", name)
	} else {
		fmt.Fprintln(f, "status type:", s[18])
	}

	switch s.Phase() {
	case StatusPhaseReceiving:
		fmt.Fprintln(f, "phase state: receiving state")
	case StatusPhasePrinting:
		fmt.Fprintln(f, "phase state: printing state")
	default:
		fmt.Fprintln(f, "phase state:", s[19])
	}

	fmt.Fprintln(f, "phase number:", int(s[20])*256+int(s[21]))

	switch n := s[22]; n {
	case 0x00:
		fmt.Fprintln(f, "notification number: not available")
	case 0x03:
		fmt.Fprintln(f, "notification number: cooling (started)")
	case 0x04:
		fmt.Fprintln(f, "notification number: cooling (finished)")
	default:
		fmt.Fprintln(f, "notification number:", n)
	}
}
