package redcode

// Options controls loadfile parsing strictness, mirroring
// redcode-parser's ParseOptions from the reference implementation.
type Options struct {
	// OmitModifiers accepts '88-style instructions with no ".MOD" and
	// infers the modifier via InferModifier.
	OmitModifiers bool
	// DisallowEmptyWarrior rejects a warrior with zero instructions.
	DisallowEmptyWarrior bool
	// MustConsumeAll rejects trailing, non-comment content after END.
	MustConsumeAll bool
}

// DefaultOptions accepts '94-style explicit modifiers, allows empty
// warriors, and ignores trailing content after END.
var DefaultOptions = Options{}

// ICWS88Options accepts loadfiles that omit modifiers.
var ICWS88Options = Options{OmitModifiers: true}

// ICWS94Options requires explicit modifiers on every instruction.
var ICWS94Options = Options{OmitModifiers: false}

// StrictOptions requires explicit modifiers, a non-empty warrior, and
// that all content is consumed.
var StrictOptions = Options{
	OmitModifiers:        false,
	DisallowEmptyWarrior: true,
	MustConsumeAll:       true,
}
