package tmx

import (
	"strings"
	"sync"

	"github.com/eak1mov/go-libtmx/internal/parallel"
)

// Property is a single <property> of a map, layer, tileset or object.
type Property struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:"value,attr"`
}

func (p Property) String() string {
	return p.Name + " = " + p.Value
}

// StrippedName returns the name without its parenthesized suffix.
func (p Property) StrippedName() string {
	return StripName(p.Name)
}

func (p Property) StrippedNameLower() string {
	return strings.ToLower(StripName(p.Name))
}

// StripName removes a parenthesized suffix from a property name:
// "Speed (float)" becomes "Speed". Names without both parentheses are
// returned unchanged.
func StripName(name string) string {
	open := strings.IndexByte(name, '(')
	if open < 0 || !strings.Contains(name, ")") {
		return name
	}
	return strings.TrimSpace(name[:open])
}

// NameSuffix extracts the text between the first '(' and the first ')' of
// a property name: "Speed (float)" yields "float".
func NameSuffix(name string) (string, bool) {
	open := strings.IndexByte(name, '(')
	end := strings.IndexByte(name, ')')
	if open < 0 || end < open {
		return "", false
	}
	return name[open+1 : end], true
}

type Properties []Property

// Files returns the values of "file" typed properties that are not blank.
func (ps Properties) Files() []string {
	var files []string
	for _, p := range ps {
		if p.Type == "file" && strings.TrimSpace(p.Value) != "" {
			files = append(files, p.Value)
		}
	}
	return files
}

// BuildIndex maps property names to values. Entries are scanned
// concurrently; when a name repeats, the entry that comes first in props
// wins regardless of scheduling. Names are kept as written.
func BuildIndex(props []Property) map[string]string {
	type entry struct {
		pos   int
		value string
	}

	var mu sync.Mutex
	entries := make(map[string]entry, len(props))
	parallel.Ranges(len(props), 64, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := &props[i]
			if p.Name == "" {
				continue
			}
			mu.Lock()
			if e, found := entries[p.Name]; !found || i < e.pos {
				entries[p.Name] = entry{pos: i, value: p.Value}
			}
			mu.Unlock()
		}
	})

	index := make(map[string]string, len(entries))
	for name, e := range entries {
		index[name] = e.value
	}
	return index
}

func hasName(index map[string]string) bool {
	for key := range index {
		if strings.EqualFold(key, "name") {
			return true
		}
	}
	return false
}

// propertyCache holds the index of one owner, built on first use.
type propertyCache struct {
	once  sync.Once
	index map[string]string
}

// get builds the index once. A non-empty name is injected under "name"
// unless the properties already carry a name key in any letter case.
func (c *propertyCache) get(props Properties, name string) map[string]string {
	c.once.Do(func() {
		c.index = BuildIndex(props)
		if name != "" && !hasName(c.index) {
			c.index["name"] = name
		}
	})
	return c.index
}
