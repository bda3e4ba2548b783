package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Canonical encoding keeps the wire form deterministic so content hashes
// are stable across processes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// wireProgram is the serialized form of a Program.
type wireProgram struct {
	Code           []byte `cbor:"code"`
	Constants      []any  `cbor:"constants"`
	ParameterCount int    `cbor:"params"`
	LocalCount     int    `cbor:"locals"`
	FrameSize      int    `cbor:"frame"`
}

// MarshalProgram serializes a finalized program to canonical CBOR bytes.
func MarshalProgram(p *Program) ([]byte, error) {
	return cborEncMode.Marshal(&wireProgram{
		Code:           p.code,
		Constants:      p.constants,
		ParameterCount: p.parameterCount,
		LocalCount:     p.localCount,
		FrameSize:      p.frameSize,
	})
}

// UnmarshalProgram deserializes a Program from CBOR bytes. Numeric
// constants come back with CBOR's integer widening, so pool entries may
// not be type-identical to the originals.
func UnmarshalProgram(data []byte) (*Program, error) {
	var w wireProgram
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if w.ParameterCount < 0 || w.LocalCount < 0 {
		return nil, fmt.Errorf("bytecode: program has negative frame counts")
	}
	if w.FrameSize < 1+w.ParameterCount+w.LocalCount {
		return nil, fmt.Errorf("bytecode: program frame size %d smaller than fixed part", w.FrameSize)
	}
	return &Program{
		code:           w.Code,
		constants:      w.Constants,
		parameterCount: w.ParameterCount,
		localCount:     w.LocalCount,
		frameSize:      w.FrameSize,
	}, nil
}
