package types

// Opcode selects the operation an Envelope invokes.
type Opcode uint8

const (
	OpConfigure           Opcode = 1
	OpRegisterUser        Opcode = 2
	OpCreateTransaction   Opcode = 3
	OpCompleteTransaction Opcode = 4
	OpGetUserBalance      Opcode = 5
)

// Envelope is the signed body of an instruction. Accounts lists record
// addresses in the order the operation declares them; Args is the
// cramberry encoding of the operation's argument struct.
type Envelope struct {
	Op       Opcode     `cramberry:"1"`
	Accounts [][32]byte `cramberry:"2"`
	Args     []byte     `cramberry:"3"`
	Signer   [32]byte   `cramberry:"4"`
}

// SignedTx is what travels as a Tx: the encoded Envelope and the
// signer's ed25519 signature over exactly those bytes.
type SignedTx struct {
	Envelope  []byte   `cramberry:"1"`
	Signature [64]byte `cramberry:"2"`
}
