package isa

// Opcode ids. Id 0 is reserved (CODE:0 is the empty-cell sentinel, spec
// §4.1), so every real opcode starts at 1. Ids are part of the
// machine-code ABI (spec §6) and must never be reassigned once released.
const (
	OpNOP = iota + 1

	OpSETI
	OpSETR
	OpSETL

	OpPUSH
	OpPOP
	OpPUSHV
	OpPOPV
	OpPUSHL
	OpPOPL

	OpSETPI
	OpSETPR
	OpSYNC
	OpSCAN
	OpPOKE
	OpSEEK
	OpSEKI
	OpSEKS

	OpJMPI
	OpJMPR
	OpCALL
	OpRET

	OpFORK
	OpKILL

	OpADDR
	OpADDI
	OpADDS
	OpSUBR
	OpSUBI
	OpSUBS
	OpMULR
	OpMULI
	OpMULS
	OpDIVR
	OpDIVI
	OpDIVS
	OpMODR
	OpMODI
	OpMODS

	OpIFR
	OpINR
	OpIFS
	OpINS

	OpLTR
	OpGETR
	OpLTI
	OpGETI
	OpLTS
	OpGETS

	OpGTR
	OpLETR
	OpGTI
	OpLETI
	OpGTS
	OpLETS

	OpIFTR
	OpINTR
	OpIFTI
	OpINTI
	OpIFTS
	OpINTS

	OpIFMR
	OpINMR
	OpIFMI
	OpINMI
	OpIFMS
	OpINMS
)

const defaultEnergyCost = 1
const motionEnergyCost = 2

// buildDefaultISA registers every opcode of the Evochora Unified ISA,
// wiring in the negated-conditional map from spec §4.3.
func buildDefaultISA() *Registry {
	r := newRegistry()

	r.register(Entry{ID: OpNOP, Mnemonic: "NOP", ArgSignatures: nil, EnergyCost: defaultEnergyCost, Handler: handleNOP})

	r.register(Entry{ID: OpSETI, Mnemonic: "SETI", ArgSignatures: []ArgSignature{REGISTER, LITERAL}, EnergyCost: defaultEnergyCost, Handler: handleSETI})
	r.register(Entry{ID: OpSETR, Mnemonic: "SETR", ArgSignatures: []ArgSignature{REGISTER, REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleSETR})
	r.register(Entry{ID: OpSETL, Mnemonic: "SETL", ArgSignatures: []ArgSignature{LOCATION_REGISTER, VECTOR}, EnergyCost: defaultEnergyCost, Handler: handleSETL})

	r.register(Entry{ID: OpPUSH, Mnemonic: "PUSH", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, Handler: handlePUSH})
	r.register(Entry{ID: OpPOP, Mnemonic: "POP", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, Handler: handlePOP})
	r.register(Entry{ID: OpPUSHV, Mnemonic: "PUSHV", ArgSignatures: []ArgSignature{LOCATION_REGISTER}, EnergyCost: defaultEnergyCost, Handler: handlePUSHV})
	r.register(Entry{ID: OpPOPV, Mnemonic: "POPV", ArgSignatures: []ArgSignature{LOCATION_REGISTER}, EnergyCost: defaultEnergyCost, Handler: handlePOPV})
	r.register(Entry{ID: OpPUSHL, Mnemonic: "PUSHL", ArgSignatures: []ArgSignature{LOCATION_REGISTER}, EnergyCost: defaultEnergyCost, Handler: handlePUSHL})
	r.register(Entry{ID: OpPOPL, Mnemonic: "POPL", ArgSignatures: []ArgSignature{LOCATION_REGISTER}, EnergyCost: defaultEnergyCost, Handler: handlePOPL})

	r.register(Entry{ID: OpSETPI, Mnemonic: "SETPI", ArgSignatures: []ArgSignature{LITERAL}, EnergyCost: defaultEnergyCost, Handler: handleSETPI})
	r.register(Entry{ID: OpSETPR, Mnemonic: "SETPR", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleSETPR})
	r.register(Entry{ID: OpSYNC, Mnemonic: "SYNC", ArgSignatures: []ArgSignature{LOCATION_REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleSYNC})
	r.register(Entry{ID: OpSCAN, Mnemonic: "SCAN", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleSCAN})
	r.register(Entry{ID: OpPOKE, Mnemonic: "POKE", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, Handler: handlePOKE})
	r.register(Entry{ID: OpSEEK, Mnemonic: "SEEK", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: motionEnergyCost, Handler: handleSEEK})
	r.register(Entry{ID: OpSEKI, Mnemonic: "SEKI", ArgSignatures: []ArgSignature{VECTOR}, EnergyCost: motionEnergyCost, Handler: handleSEKI})
	r.register(Entry{ID: OpSEKS, Mnemonic: "SEKS", ArgSignatures: nil, EnergyCost: motionEnergyCost, Handler: handleSEKS})

	r.register(Entry{ID: OpJMPI, Mnemonic: "JMPI", ArgSignatures: []ArgSignature{LABEL}, EnergyCost: defaultEnergyCost, Handler: handleJMPI})
	r.register(Entry{ID: OpJMPR, Mnemonic: "JMPR", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleJMPR})
	r.register(Entry{ID: OpCALL, Mnemonic: "CALL", ArgSignatures: []ArgSignature{LABEL, REGISTER, REGISTER, REGISTER, REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleCALL})
	r.register(Entry{ID: OpRET, Mnemonic: "RET", ArgSignatures: nil, EnergyCost: defaultEnergyCost, Handler: handleRET})

	r.register(Entry{ID: OpFORK, Mnemonic: "FORK", ArgSignatures: nil, EnergyCost: motionEnergyCost, Handler: handleFORK})
	r.register(Entry{ID: OpKILL, Mnemonic: "KILL", ArgSignatures: nil, EnergyCost: defaultEnergyCost, Handler: handleKILL})

	registerArithFamily(r, OpADDR, OpADDI, OpADDS, "ADD", func(a, b int32) int32 { return a + b })
	registerArithFamily(r, OpSUBR, OpSUBI, OpSUBS, "SUB", func(a, b int32) int32 { return a - b })
	registerArithFamily(r, OpMULR, OpMULI, OpMULS, "MUL", func(a, b int32) int32 { return a * b })
	registerDivFamily(r, OpDIVR, OpDIVI, OpDIVS, "DIV", func(a, b int32) int32 { return a / b })
	registerDivFamily(r, OpMODR, OpMODI, OpMODS, "MOD", func(a, b int32) int32 { return a % b })

	r.register(Entry{ID: OpIFR, Mnemonic: "IFR", ArgSignatures: []ArgSignature{REGISTER, REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleIFR, NegatedID: OpINR})
	r.register(Entry{ID: OpINR, Mnemonic: "INR", ArgSignatures: []ArgSignature{REGISTER, REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleINR, NegatedID: OpIFR})
	r.register(Entry{ID: OpIFS, Mnemonic: "IFS", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleIFS, NegatedID: OpINS})
	r.register(Entry{ID: OpINS, Mnemonic: "INS", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, Handler: handleINS, NegatedID: OpIFS})

	registerOrderingFamily(r, OpLTR, OpGETR, OpLTI, OpGETI, OpLTS, OpGETS, "LT", "GET",
		func(a, b int32) bool { return a < b }, func(a, b int32) bool { return a >= b })
	registerOrderingFamily(r, OpGTR, OpLETR, OpGTI, OpLETI, OpGTS, OpLETS, "GT", "LET",
		func(a, b int32) bool { return a > b }, func(a, b int32) bool { return a <= b })

	registerTypeFamily(r)
	registerOwnerFamily(r)

	return r
}
