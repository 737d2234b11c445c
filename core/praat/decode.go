package praat

import (
	"fmt"

	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
)

// Identifiers every TextGrid starts with.
const (
	FileType    = "ooTextFile"
	ObjectClass = "TextGrid"
)

type decodeState int

const (
	stateHeader decodeState = iota
	stateBounds
	stateTierCount
	stateTiers
	stateDone
)

type decoder struct {
	q     *tokenQueue
	sink  textgrid.Sink
	name  string
	state decodeState

	xmin, xmax float64
	declared   int
	tiers      []textgrid.Tier
	doc        *textgrid.Document
}

// Decode parses raw lines into a document called name. Warnings go to sink;
// a nil sink disables them. No document is returned on error.
func Decode(lines []string, name string, sink textgrid.Sink) (*textgrid.Document, error) {
	return DecodeTokens(Tokenize(NormalizeLines(lines)), name, sink)
}

// DecodeTokens parses an already filtered token sequence.
func DecodeTokens(tokens []Token, name string, sink textgrid.Sink) (*textgrid.Document, error) {
	d := &decoder{
		q:    newTokenQueue(tokens),
		sink: sink,
		name: name,
	}
	for d.state != stateDone {
		if err := d.step(); err != nil {
			var pe *errors.ParseError
			if errors.As(err, &pe) && pe.Path == "" {
				pe.Path = name
			}
			return nil, err
		}
	}
	return d.doc, nil
}

func (d *decoder) step() error {
	switch d.state {
	case stateHeader:
		if err := d.expectIdentifier("File type", FileType); err != nil {
			return err
		}
		if err := d.expectIdentifier("Object class", ObjectClass); err != nil {
			return err
		}
		d.state = stateBounds

	case stateBounds:
		var err error
		if d.xmin, err = d.q.nextFloat("xmin"); err != nil {
			return err
		}
		if d.xmax, err = d.q.nextFloat("xmax"); err != nil {
			return err
		}
		d.state = stateTierCount

	case stateTierCount:
		// "tiers? <absent>" documents stop right after the bounds.
		if !d.q.empty() {
			var err error
			if d.declared, err = d.q.nextInt("size"); err != nil {
				return err
			}
		}
		d.state = stateTiers

	case stateTiers:
		if d.q.empty() {
			if len(d.tiers) != d.declared {
				textgrid.Warnf(d.sink, textgrid.WarnCountMismatch, "",
					"document declares %d tiers but %d were found", d.declared, len(d.tiers))
			}
			d.assemble()
			d.state = stateDone
			return nil
		}
		tier, err := d.decodeTier(len(d.tiers) + 1)
		if err != nil {
			return err
		}
		d.tiers = append(d.tiers, tier)
	}
	return nil
}

func (d *decoder) assemble() {
	d.doc = textgrid.NewDocument(d.name, d.xmin, d.xmax)
	for _, t := range d.tiers {
		// Tiers built here always carry their variant.
		_ = d.doc.PushTier(t, d.sink)
	}
}

func (d *decoder) expectIdentifier(field, want string) error {
	tok, ok := d.q.pop()
	if !ok {
		return errors.NewParse(formatName, field, fmt.Sprintf("expected %q, got end of input", want), errors.ErrMalformedHeader)
	}
	if tok.Value != want {
		pe := errors.NewParse(formatName, field, fmt.Sprintf("expected %q, got %q", want, tok.Value), errors.ErrMalformedHeader)
		pe.Token = tok.Value
		return pe
	}
	return nil
}

// decodeTier reads one tier record. Its children are read until the next
// tier class token or the end of input; the declared size is only compared
// afterwards.
func (d *decoder) decodeTier(index int) (textgrid.Tier, error) {
	class, err := d.q.popRequired(fmt.Sprintf("class of tier %d", index))
	if err != nil {
		return textgrid.Tier{}, err
	}
	kind, ok := textgrid.ParseTierKind(class.Value)
	if !class.Quoted || !ok {
		pe := errors.NewParse(formatName, fmt.Sprintf("class of tier %d", index),
			fmt.Sprintf("unrecognized tier type %q", class.Value), errors.ErrUnknownTierType)
		pe.Token = class.Value
		return textgrid.Tier{}, pe
	}

	nameTok, err := d.q.popRequired(fmt.Sprintf("name of tier %d", index))
	if err != nil {
		return textgrid.Tier{}, err
	}
	name := nameTok.Value

	xmin, err := d.q.nextFloat(fmt.Sprintf("xmin of tier %q", name))
	if err != nil {
		return textgrid.Tier{}, err
	}
	xmax, err := d.q.nextFloat(fmt.Sprintf("xmax of tier %q", name))
	if err != nil {
		return textgrid.Tier{}, err
	}
	declared, err := d.q.nextInt(fmt.Sprintf("size of tier %q", name))
	if err != nil {
		return textgrid.Tier{}, err
	}

	switch kind {
	case textgrid.KindInterval:
		tier := textgrid.NewIntervalTier(name, xmin, xmax)
		for !d.q.empty() && !d.q.atTierClass() {
			iv, err := d.decodeInterval(name, tier.Size()+1)
			if err != nil {
				return textgrid.Tier{}, err
			}
			tier.Push(iv, d.sink)
		}
		d.checkCount(name, "intervals", declared, tier.Size())
		return tier.Tier(), nil

	default:
		tier := textgrid.NewPointTier(name, xmin, xmax)
		for !d.q.empty() && !d.q.atTierClass() {
			p, err := d.decodePoint(name, tier.Size()+1)
			if err != nil {
				return textgrid.Tier{}, err
			}
			tier.Push(p, d.sink)
		}
		d.checkCount(name, "points", declared, tier.Size())
		return tier.Tier(), nil
	}
}

func (d *decoder) decodeInterval(tier string, n int) (textgrid.Interval, error) {
	field := fmt.Sprintf("interval %d of tier %q", n, tier)
	xmin, err := d.q.nextFloat(field + " xmin")
	if err != nil {
		return textgrid.Interval{}, err
	}
	xmax, err := d.q.nextFloat(field + " xmax")
	if err != nil {
		return textgrid.Interval{}, err
	}
	text, err := d.q.popRequired(field + " text")
	if err != nil {
		return textgrid.Interval{}, err
	}
	return textgrid.Interval{XMin: xmin, XMax: xmax, Text: text.Value}, nil
}

func (d *decoder) decodePoint(tier string, n int) (textgrid.Point, error) {
	field := fmt.Sprintf("point %d of tier %q", n, tier)
	number, err := d.q.nextFloat(field + " number")
	if err != nil {
		return textgrid.Point{}, err
	}
	mark, err := d.q.popRequired(field + " mark")
	if err != nil {
		return textgrid.Point{}, err
	}
	return textgrid.Point{Number: number, Mark: mark.Value}, nil
}

func (d *decoder) checkCount(tier, what string, declared, found int) {
	if declared != found {
		textgrid.Warnf(d.sink, textgrid.WarnCountMismatch, tier,
			"tier %q declares %d %s but %d were found", tier, declared, what, found)
	}
}
