package bsp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Entity is one key/value dictionary from the map's entity text.
type Entity map[string]string

func (e Entity) Float(key string, def float64) float64 {
	s, ok := e[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func (e Entity) Int(key string, def int) int {
	return int(e.Float(key, float64(def)))
}

// Bool follows the map convention that any nonzero numeric value is true.
func (e Entity) Bool(key string) bool {
	return e.Float(key, 0) != 0
}

// ParseEntities decodes entity text of the form
//
//	{
//	"classname" "worldspawn"
//	"key" "value"
//	}
//
// into dictionaries. Later duplicate keys within an entity win.
func ParseEntities(data string) ([]Entity, error) {
	var ents []Entity
	p := entParser{data: data, line: 1}

	for {
		p.skipSpace()
		if p.eof() {
			return ents, nil
		}
		if p.data[p.pos] != '{' {
			return nil, fmt.Errorf("bsp: entity data: expected '{' on line %d", p.line)
		}
		p.pos++

		ent := Entity{}
		for {
			p.skipSpace()
			if p.eof() {
				return nil, fmt.Errorf("bsp: entity data: unterminated entity on line %d", p.line)
			}
			if p.data[p.pos] == '}' {
				p.pos++
				break
			}
			key, err := p.quoted()
			if err != nil {
				return nil, err
			}
			p.skipSpace()
			value, err := p.quoted()
			if err != nil {
				return nil, err
			}
			ent[key] = value
		}
		ents = append(ents, ent)
	}
}

// marshalEntities is the inverse of ParseEntities. Keys are emitted with
// classname first and the rest sorted, so output is deterministic.
func marshalEntities(ents []Entity) string {
	var b strings.Builder
	for _, ent := range ents {
		keys := make([]string, 0, len(ent))
		for k := range ent {
			if k != "classname" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		if _, ok := ent["classname"]; ok {
			keys = append([]string{"classname"}, keys...)
		}

		b.WriteString("{\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "%q %q\n", k, ent[k])
		}
		b.WriteString("}\n")
	}
	return b.String()
}

type entParser struct {
	data string
	pos  int
	line int
}

func (p *entParser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *entParser) skipSpace() {
	for !p.eof() {
		switch p.data[p.pos] {
		case '\n':
			p.line++
			p.pos++
		case ' ', '\t', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *entParser) quoted() (string, error) {
	if p.eof() || p.data[p.pos] != '"' {
		return "", fmt.Errorf("bsp: entity data: expected quoted string on line %d", p.line)
	}
	p.pos++
	start := p.pos
	for !p.eof() {
		c := p.data[p.pos]
		if c == '"' {
			s := p.data[start:p.pos]
			p.pos++
			return s, nil
		}
		if c == '\n' {
			p.line++
		}
		p.pos++
	}
	return "", fmt.Errorf("bsp: entity data: unterminated string on line %d", p.line)
}
