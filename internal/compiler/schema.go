package compiler

import (
	"cuelang.org/go/cue"
)

// schemaSource is the CUE schema every calibration spec must satisfy.
const schemaSource = `
#Amp: number | [number, number]

#Shape: {
	kind:      "gaussian" | "gaussian_square" | "constant" | "samples"
	duration?: int & >0
	amp?:      #Amp
	sigma?:    number & >0
	width?:    int & >=0
	samples?: [...#Amp]
}

#Instruction: {
	name:    string & !=""
	channel: =~"^[duma][0-9]+$"
	start:   *0 | (int & >=0)
	shape:   #Shape
}

#Entry: {
	gate: string & !=""
	qubits: [...(int & >=0)]
	instructions: [...#Instruction]
}

#ControlChannel: {
	control: int & >=0
	target:  int & >=0
	index:   int & >=0
}

#Calibration: {
	device: {
		name:        string & !=""
		num_qubits:  int & >0
		granularity: *16 | (int & >0)
		basis_gates: [...string]
		control_channels: [...#ControlChannel]
	}
	calibrations: [...#Entry]
}
`

// applySchema unifies v with #Calibration built in v's own context.
func applySchema(v cue.Value) cue.Value {
	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	return schema.LookupPath(cue.ParsePath("#Calibration")).Unify(v)
}
