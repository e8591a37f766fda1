// Package question turns catalog records into natural-language quiz questions.
package question

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"sync"
	"time"

	"geo-quiz-service/internal/domain"
)

// CountrySource is the read side of the country catalog used for questions.
type CountrySource interface {
	PickRandomCode() string
	Record(code string) (domain.CountryRecord, bool)
}

// Generator produces randomized question/answer pairs.
type Generator struct {
	source    CountrySource
	templates []string

	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time. An empty template
// list selects DefaultTemplates.
func New(source CountrySource, templates []string) *Generator {
	return NewWithRand(source, templates, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand is New with an explicit random source.
func NewWithRand(source CountrySource, templates []string, rnd *rand.Rand) *Generator {
	if len(templates) == 0 {
		templates = DefaultTemplates
	}
	return &Generator{
		source:    source,
		templates: append([]string(nil), templates...),
		rnd:       rnd,
	}
}

// Generate picks a template and a country and fills the template from the
// country's record. The answer is always the country's canonical name, or
// domain.Unknown when the catalog has no record for the picked code.
func (g *Generator) Generate() domain.QAPair {
	g.mu.Lock()
	template := g.templates[g.rnd.Intn(len(g.templates))]
	g.mu.Unlock()

	rec, ok := g.source.Record(g.source.PickRandomCode())
	if !ok {
		return domain.QAPair{Question: Fill(template, nil), Answer: domain.Unknown}
	}
	return domain.QAPair{Question: Fill(template, rec.Values()), Answer: rec.Name}
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Fill replaces every {key} in template with values[key]. Missing or nil
// values render as domain.Unknown; structured values are JSON-encoded.
func Fill(template string, values map[string]any) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		v, ok := values[key]
		if !ok || v == nil {
			return domain.Unknown
		}
		return stringify(v)
	})
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
