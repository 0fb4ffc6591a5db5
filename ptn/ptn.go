package ptn

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/takumi-tak/takumi/tak"
)

type Tag struct {
	Name  string
	Value string
}

type Op interface {
	op()
	clearSrc()

	Source() string
}

type opCommon struct {
	src string
}

func (o opCommon) Source() string {
	return o.src
}

func (o opCommon) op() {}

func (o *opCommon) clearSrc() {
	o.src = ""
}

type MoveNumber struct {
	opCommon
	Number int
}

type Move struct {
	opCommon
	Move      tak.Move
	Modifiers string
}

type Comment struct {
	opCommon
	Comment string
}

type Result struct {
	opCommon
	Outcome tak.Outcome
}

type PTN struct {
	Tags []Tag
	Ops  []Op
}

func ParsePTN(r io.Reader) (*PTN, error) {
	buf := bufio.NewReader(r)
	if c, _, err := buf.ReadRune(); err == nil && c != 0xFEFF {
		buf.UnreadRune()
	}
	var ptn PTN
	if err := readTags(buf, &ptn); err != nil && err != io.EOF {
		return nil, err
	}
	if err := readMoves(buf, &ptn); err != nil && err != io.EOF {
		return nil, err
	}
	return &ptn, nil
}

func (p *PTN) FindTag(name string) string {
	for _, t := range p.Tags {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

// SetTag replaces the value of name, adding the tag if needed.
func (p *PTN) SetTag(name, value string) {
	for i, t := range p.Tags {
		if t.Name == name {
			p.Tags[i].Value = value
			return
		}
	}
	p.Tags = append(p.Tags, Tag{name, value})
}

// Config reads the board size, reserves and komi from the tags.
func (p *PTN) Config() (tak.Config, error) {
	var cfg tak.Config
	sizeTag := p.FindTag("Size")
	size, e := strconv.Atoi(sizeTag)
	if e != nil {
		return cfg, malformed("bad size: %q", sizeTag)
	}
	cfg.Size = size
	if v := p.FindTag("Flats"); v != "" {
		if cfg.Pieces, e = strconv.Atoi(v); e != nil {
			return cfg, malformed("bad flats: %q", v)
		}
	}
	if v := p.FindTag("Caps"); v != "" {
		if cfg.Capstones, e = strconv.Atoi(v); e != nil {
			return cfg, malformed("bad caps: %q", v)
		}
	}
	if v := p.FindTag("Komi"); v != "" {
		if cfg.Komi, e = ParseKomi(v); e != nil {
			return cfg, e
		}
	}
	if e := cfg.Validate(); e != nil {
		return cfg, e
	}
	return cfg, nil
}

// ParseKomi accepts a whole number optionally followed by ".5".
func ParseKomi(s string) (tak.Komi, error) {
	var k tak.Komi
	whole := s
	if strings.HasSuffix(s, ".5") {
		k.Half = true
		whole = strings.TrimSuffix(s, ".5")
	} else if strings.HasSuffix(s, ".0") {
		whole = strings.TrimSuffix(s, ".0")
	}
	n, err := strconv.Atoi(whole)
	if err != nil || n < 0 {
		return tak.Komi{}, malformed("bad komi: %q", s)
	}
	k.Amount = n
	return k, nil
}

func FormatKomi(k tak.Komi) string {
	if k.Half {
		return fmt.Sprintf("%d.5", k.Amount)
	}
	return strconv.Itoa(k.Amount)
}

func (p *PTN) InitialPosition() (*tak.Position, error) {
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}
	tps := p.FindTag("TPS")
	if tps == "" {
		return tak.New(cfg), nil
	}
	out, err := ParseTPSConfig(tps, cfg)
	if err != nil {
		return nil, fmt.Errorf("bad TPS: %w", err)
	}
	if out.Size() != cfg.Size {
		return nil, fmt.Errorf("size mismatch: tag %d != TPS %d",
			cfg.Size, out.Size())
	}
	return out, nil
}

// PositionAtMove returns the position just before color plays its
// move'th move. A move of 0 returns the final position.
func (p *PTN) PositionAtMove(move int, color tak.Color) (*tak.Position, error) {
	it := p.Iterator()
	var last *tak.Position
	for it.Next() {
		last = it.Position()
		if move != 0 && it.PTNMove() == move && last.ToMove() == color {
			return last, nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	if move == 0 && last != nil {
		return last, nil
	}
	return nil, fmt.Errorf("move %d for %v not found", move, color)
}

// FromPosition records the game leading to p, with the given extra
// tags.
func FromPosition(p *tak.Position, tags ...Tag) *PTN {
	out := &PTN{}
	cfg := p.Config()
	out.SetTag("Size", strconv.Itoa(cfg.Size))
	root := p.Root()
	flats, caps := tak.DefaultReserves(cfg.Size)
	if cfg.Pieces != flats {
		out.SetTag("Flats", strconv.Itoa(cfg.Pieces))
	}
	if cfg.Capstones != caps {
		out.SetTag("Caps", strconv.Itoa(cfg.Capstones))
	}
	if cfg.Komi != (tak.Komi{}) {
		out.SetTag("Komi", FormatKomi(cfg.Komi))
	}
	if root.MoveNumber() != 0 || root.Analysis().Occupied != 0 {
		out.SetTag("TPS", FormatTPS(root))
	}
	for _, t := range tags {
		out.SetTag(t.Name, t.Value)
	}

	ply := root.MoveNumber()
	for i, m := range p.History() {
		if i == 0 || ply%2 == 0 {
			out.Ops = append(out.Ops, &MoveNumber{Number: ply/2 + 1})
		}
		out.Ops = append(out.Ops, &Move{Move: m})
		ply++
	}
	if s := p.Status(); s.Over {
		out.Ops = append(out.Ops, &Result{Outcome: s})
		out.SetTag("Result", formatResult(s))
	}
	return out
}

func readTags(r *bufio.Reader, ptn *PTN) error {
	for {
		if e := skipWS(r); e != nil {
			return e
		}
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if c != '[' {
			return r.UnreadByte()
		}
		line, e := r.ReadString(']')
		if e != nil {
			return malformed("unterminated tag")
		}
		line = line[:len(line)-1]
		bits := strings.SplitN(line, " ", 2)
		if len(bits) != 2 {
			return malformed("bad tag: %q", line)
		}
		ptn.Tags = append(ptn.Tags, Tag{
			Name:  bits[0],
			Value: strings.Trim(bits[1], "\""),
		})
	}
}

var results = map[string]tak.Outcome{
	"R-0":     {Over: true, Winner: tak.White, Reason: tak.RoadWin},
	"0-R":     {Over: true, Winner: tak.Black, Reason: tak.RoadWin},
	"F-0":     {Over: true, Winner: tak.White, Reason: tak.FlatWin},
	"0-F":     {Over: true, Winner: tak.Black, Reason: tak.FlatWin},
	"1-0":     {Over: true, Winner: tak.White, Reason: tak.DefaultWin},
	"0-1":     {Over: true, Winner: tak.Black, Reason: tak.DefaultWin},
	"1/2-1/2": {Over: true, Winner: tak.NoColor, Reason: tak.FlatWin},
}

func formatResult(o tak.Outcome) string {
	switch {
	case o.Winner == tak.NoColor:
		return "1/2-1/2"
	case o.Reason == tak.RoadWin && o.Winner == tak.White:
		return "R-0"
	case o.Reason == tak.RoadWin:
		return "0-R"
	case o.Reason == tak.FlatWin && o.Winner == tak.White:
		return "F-0"
	case o.Reason == tak.FlatWin:
		return "0-F"
	case o.Winner == tak.White:
		return "1-0"
	default:
		return "0-1"
	}
}

func readMoves(r *bufio.Reader, ptn *PTN) error {
	s := bufio.NewScanner(r)
	s.Split(splitMoves)
	for s.Scan() {
		tok := s.Text()
		common := opCommon{tok}
		if res, ok := results[tok]; ok {
			ptn.Ops = append(ptn.Ops, &Result{common, res})
			continue
		}
		switch {
		case tok[0] == '{':
			if len(tok) < 2 || tok[len(tok)-1] != '}' {
				return malformed("unterminated comment: %q", tok)
			}
			ptn.Ops = append(ptn.Ops, &Comment{common, tok[1 : len(tok)-1]})
		case tok[len(tok)-1] == '.':
			n, e := strconv.Atoi(tok[:len(tok)-1])
			if e != nil {
				return malformed("bad move number: %q", tok)
			}
			ptn.Ops = append(ptn.Ops, &MoveNumber{common, n})
		default:
			trimmed := strings.TrimRight(tok, "?!'\"")
			move, e := ParseMove(trimmed)
			if e != nil {
				return e
			}
			ptn.Ops = append(ptn.Ops, &Move{common, move, tok[len(trimmed):]})
		}
	}
	return s.Err()
}

func splitMoves(buf []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(buf) && unicode.IsSpace(rune(buf[start])) {
		start++
	}
	if start == len(buf) {
		return start, nil, nil
	}
	if buf[start] == '{' {
		for i := start; i < len(buf); i++ {
			if buf[i] == '}' {
				return i + 1, buf[start : i+1], nil
			}
		}
	} else {
		for i := start; i < len(buf); i++ {
			if unicode.IsSpace(rune(buf[i])) {
				return i + 1, buf[start:i], nil
			}
		}
	}
	if atEOF {
		return len(buf), buf[start:], nil
	}
	return start, nil, nil
}

func skipWS(r *bufio.Reader) error {
	for {
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if !unicode.IsSpace(rune(c)) {
			return r.UnreadByte()
		}
	}
}

func (p *PTN) Render() string {
	var out bytes.Buffer
	for _, tag := range p.Tags {
		fmt.Fprintf(&out, "[%s \"%s\"]\n",
			tag.Name, strings.Replace(tag.Value, "\"", "", -1),
		)
	}
	out.WriteString("\n")

	for _, op := range p.Ops {
		switch o := op.(type) {
		case *MoveNumber:
			fmt.Fprintf(&out, "\n%d.", o.Number)
		case *Move:
			fmt.Fprintf(&out, " %s%s", FormatMove(o.Move), o.Modifiers)
		case *Comment:
			fmt.Fprintf(&out, " {%s}", o.Comment)
		case *Result:
			fmt.Fprintf(&out, "\n%s\n", formatResult(o.Outcome))
		}
	}
	return out.String()
}
