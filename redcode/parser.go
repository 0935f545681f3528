package redcode

import (
	"fmt"
	"strconv"
)

// Parse parses an ICWS '88/'94 loadfile per spec.md §4.B/§6 into a
// Warrior. Options selects '88 vs '94 modifier requirements and
// strictness. file is used only for error messages.
func Parse(file, src string, opts Options) (Warrior, error) {
	items := lex(src)
	p := &parser{file: file, items: items}

	start := 0
	haveStart := false
	endArgStart := -1
	var pin *int64
	var code []Instruction

	for {
		line, ok := p.nextLine()
		if !ok {
			break
		}
		if len(line) == 0 {
			continue
		}
		switch kind, arg, err := classifyLine(line); kind {
		case lineError:
			return Warrior{}, err
		case lineEmpty:
			continue
		case lineOrg:
			start = int(arg)
			haveStart = true
		case linePin:
			v := arg
			pin = &v
		case lineEnd:
			if len(line) >= 2 && line[1].typ == itemNumber { // END with an argument
				if endArgStart >= 0 {
					return Warrior{}, p.errf(line[0], ErrMultipleEnd, "multiple END statements with an argument")
				}
				endArgStart = int(arg)
			}
			if err := p.scanForDuplicateEnd(&endArgStart); err != nil {
				return Warrior{}, err
			}
			goto doneParsing
		case lineInstruction:
			instr, err := p.parseInstruction(line, opts)
			if err != nil {
				return Warrior{}, err
			}
			code = append(code, instr)
			if len(code) > maxParseInstructions {
				return Warrior{}, p.errf(line[0], ErrTooManyInstructions, "warrior exceeds %d instructions", maxParseInstructions)
			}
		}
	}
doneParsing:

	if opts.MustConsumeAll {
		if line, ok := p.nextLine(); ok && len(line) > 0 {
			return Warrior{}, p.errf(line[0], ErrTrailingContent, "content remains after END")
		}
	}

	if endArgStart >= 0 {
		start = endArgStart
	} else if !haveStart {
		start = 0
	}

	w := Warrior{Code: code, Start: start, PIN: pin}
	if opts.DisallowEmptyWarrior && len(code) == 0 {
		return Warrior{}, fmt.Errorf("%w", ErrEmptyWarrior)
	}
	if len(code) == 0 {
		// An empty warrior still needs Start == 0 to be well-formed; it is
		// rejected later by Warrior.Validate, which always requires at
		// least one instruction.
		w.Start = 0
	} else if w.Start < 0 || w.Start >= len(w.Code) {
		w.Start = ((w.Start % len(w.Code)) + len(w.Code)) % len(w.Code)
	}
	return w, nil
}

// maxParseInstructions is a generous upper bound the parser itself
// enforces before the loader applies the caller's MAX_WARRIOR_SIZE; it
// exists only to bound pathological input, not to encode the real limit.
const maxParseInstructions = 1 << 20

type lineKind int

const (
	lineEmpty lineKind = iota
	lineOrg
	lineEnd
	linePin
	lineInstruction
	lineError
)

func classifyLine(line []item) (lineKind, int64, error) {
	if len(line) == 0 {
		return lineEmpty, 0, nil
	}
	if line[0].typ != itemWord {
		return lineInstruction, 0, nil
	}
	switch upperWord(line[0].val) {
	case "ORG":
		if len(line) < 2 || line[1].typ != itemNumber {
			return lineError, 0, &ParseError{Line: line[0].line, Col: line[0].col, Err: ErrUnexpectedEOF}
		}
		n, err := strconv.ParseInt(line[1].val, 10, 64)
		if err != nil {
			return lineError, 0, &ParseError{Line: line[1].line, Col: line[1].col, Err: ErrBadNumber}
		}
		return lineOrg, n, nil
	case "PIN":
		if len(line) < 2 || line[1].typ != itemNumber {
			return lineError, 0, &ParseError{Line: line[0].line, Col: line[0].col, Err: ErrUnexpectedEOF}
		}
		n, err := strconv.ParseInt(line[1].val, 10, 64)
		if err != nil {
			return lineError, 0, &ParseError{Line: line[1].line, Col: line[1].col, Err: ErrBadNumber}
		}
		return linePin, n, nil
	case "END":
		if len(line) >= 2 && line[1].typ == itemNumber {
			n, err := strconv.ParseInt(line[1].val, 10, 64)
			if err != nil {
				return lineError, 0, &ParseError{Line: line[1].line, Col: line[1].col, Err: ErrBadNumber}
			}
			return lineEnd, n, nil
		}
		return lineEnd, 0, nil
	default:
		return lineInstruction, 0, nil
	}
}

// parser holds lexer output split into logical lines for the statement
// grammar; numeric parsing itself lives in classifyLine/parseInstruction.
type parser struct {
	file string
	items []item
	pos   int
}

func (p *parser) nextLine() ([]item, bool) {
	if p.pos >= len(p.items) {
		return nil, false
	}
	start := p.pos
	for p.pos < len(p.items) {
		it := p.items[p.pos]
		if it.typ == itemEOF {
			line := p.items[start:p.pos]
			p.pos++
			if len(line) == 0 {
				return nil, false
			}
			return line, true
		}
		if it.typ == itemNewline {
			line := p.items[start:p.pos]
			p.pos++
			return line, true
		}
		p.pos++
	}
	return p.items[start:p.pos], true
}

// scanForDuplicateEnd looks past a just-seen END statement for a second
// one carrying an argument, the case ErrMultipleEnd exists for. It
// consumes only blank lines and further END lines; the first line that
// is neither gets rewound so the trailing-content check after
// doneParsing still sees it.
func (p *parser) scanForDuplicateEnd(endArgStart *int) error {
	for {
		savedPos := p.pos
		line, ok := p.nextLine()
		if !ok {
			return nil
		}
		if len(line) == 0 {
			continue
		}
		kind, arg, err := classifyLine(line)
		if err != nil {
			p.pos = savedPos
			return nil
		}
		switch kind {
		case lineEmpty:
			continue
		case lineEnd:
			if len(line) >= 2 && line[1].typ == itemNumber {
				if *endArgStart >= 0 {
					return p.errf(line[0], ErrMultipleEnd, "multiple END statements with an argument")
				}
				*endArgStart = int(arg)
			}
		default:
			p.pos = savedPos
			return nil
		}
	}
}

func (p *parser) errf(it item, kind error, format string, args ...any) error {
	return &ParseError{File: p.file, Line: it.line, Col: it.col, Err: fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))}
}

// parseInstruction parses one instruction line: OPCODE[.MOD] MODE NUM ,
// MODE NUM.
func (p *parser) parseInstruction(line []item, opts Options) (Instruction, error) {
	idx := 0
	next := func() (item, bool) {
		if idx >= len(line) {
			return item{}, false
		}
		it := line[idx]
		idx++
		return it, true
	}

	opTok, ok := next()
	if !ok || opTok.typ != itemWord {
		return Instruction{}, p.errf(opTok, ErrUnknownOpcode, "expected opcode")
	}
	op, ok := ParseOpcode(opTok.val)
	if !ok {
		return Instruction{}, p.errf(opTok, ErrUnknownOpcode, "%q", opTok.val)
	}

	mod := ModF
	haveMod := false
	if idx < len(line) && line[idx].typ == itemDot {
		idx++
		modTok, ok := next()
		if !ok || modTok.typ != itemWord {
			return Instruction{}, p.errf(modTok, ErrUnknownModifier, "expected modifier after '.'")
		}
		m, ok := ParseModifier(modTok.val)
		if !ok {
			return Instruction{}, p.errf(modTok, ErrUnknownModifier, "%q", modTok.val)
		}
		mod, haveMod = m, true
	} else if !opts.OmitModifiers {
		return Instruction{}, p.errf(opTok, ErrUnknownModifier, "missing required modifier")
	}

	aMode, aVal, err := p.parseOperand(next)
	if err != nil {
		return Instruction{}, err
	}

	commaTok, ok := next()
	if !ok || commaTok.typ != itemComma {
		return Instruction{}, p.errf(commaTok, ErrMissingComma, "expected ',' between operands")
	}

	bMode, bVal, err := p.parseOperand(next)
	if err != nil {
		return Instruction{}, err
	}

	if !haveMod {
		mod = InferModifier(op, aMode, bMode)
	}

	return Instruction{Op: op, Mod: mod, AMode: aMode, AValue: aVal, BMode: bMode, BValue: bVal}, nil
}

func (p *parser) parseOperand(next func() (item, bool)) (AddrMode, int64, error) {
	mode := Direct
	tok, ok := next()
	if !ok {
		return 0, 0, p.errf(tok, ErrUnexpectedEOF, "expected operand")
	}
	if tok.typ == itemMode {
		m, ok := ParseAddrMode(tok.val[0])
		if !ok {
			return 0, 0, p.errf(tok, ErrUnknownMode, "%q", tok.val)
		}
		mode = m
		tok, ok = next()
		if !ok {
			return 0, 0, p.errf(tok, ErrUnexpectedEOF, "expected number after mode sigil")
		}
	}
	if tok.typ != itemNumber {
		return 0, 0, p.errf(tok, ErrBadNumber, "expected number, got %q", tok.val)
	}
	n, err := strconv.ParseInt(tok.val, 10, 64)
	if err != nil {
		return 0, 0, p.errf(tok, ErrBadNumber, "%q", tok.val)
	}
	return mode, n, nil
}
