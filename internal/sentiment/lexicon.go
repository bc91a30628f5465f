package sentiment

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon scores text by averaging the polarity of the words it knows.
type Lexicon struct {
	Version        string             `yaml:"version"`
	Exclamation    float64            `yaml:"exclamation"`
	NegationWindow int                `yaml:"negation_window"`
	NegationFactor float64            `yaml:"negation_factor"`
	Negations      []string           `yaml:"negations"`
	Intensifiers   map[string]float64 `yaml:"intensifiers"`
	Words          map[string]float64 `yaml:"words"`

	negations map[string]struct{}
}

var (
	defaultOnce    sync.Once
	defaultLexicon *Lexicon
	defaultErr     error
)

// DefaultLexicon returns the embedded English feedback lexicon.
func DefaultLexicon() (*Lexicon, error) {
	defaultOnce.Do(func() {
		defaultLexicon, defaultErr = ParseLexicon(defaultLexiconYAML)
	})
	return defaultLexicon, defaultErr
}

// LoadLexicon reads a lexicon file in the embedded lexicon's format. An empty
// path selects the embedded lexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	l, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ParseLexicon decodes a YAML lexicon and validates its ranges.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var l Lexicon
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	if l.Version == "" {
		return nil, fmt.Errorf("lexicon version is required")
	}
	if l.Exclamation == 0 {
		l.Exclamation = 1
	}
	if l.NegationFactor == 0 {
		l.NegationFactor = -0.5
	}
	if l.NegationWindow <= 0 {
		l.NegationWindow = 1
	}
	for w, p := range l.Words {
		if p < -1 || p > 1 {
			return nil, fmt.Errorf("polarity of %q out of range: %v", w, p)
		}
	}

	l.negations = make(map[string]struct{}, len(l.Negations))
	for _, n := range l.Negations {
		l.negations[strings.ToLower(n)] = struct{}{}
	}
	return &l, nil
}

// ModelVersion identifies the scoring model; analyses are only comparable
// between equal versions.
func (l *Lexicon) ModelVersion() string {
	return "lexicon/" + l.Version
}

var tokenPattern = regexp.MustCompile(`[a-z]+(?:[-'][a-z]+)*|!`)

func tokenize(text string) []string {
	text = strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	return tokenPattern.FindAllString(text, -1)
}

// Polarity returns the polarity of text in [-1, 1]. Text without any known
// word scores 0.
func (l *Lexicon) Polarity(text string) float64 {
	var (
		scores      []float64
		intensity   = 1.0
		negateLeft  int
		afterScored bool
	)

	for _, tok := range tokenize(text) {
		if tok == "!" {
			if afterScored {
				last := len(scores) - 1
				scores[last] = clamp(scores[last] * l.Exclamation)
			}
			continue
		}
		afterScored = false

		if _, ok := l.negations[tok]; ok {
			negateLeft = l.NegationWindow
			intensity = 1
			continue
		}
		if f, ok := l.Intensifiers[tok]; ok {
			intensity *= f
			if negateLeft > 0 {
				negateLeft--
			}
			continue
		}

		if p, ok := l.Words[tok]; ok {
			p *= intensity
			if negateLeft > 0 {
				p *= l.NegationFactor
				negateLeft = 0
			}
			scores = append(scores, clamp(p))
			afterScored = true
		} else if negateLeft > 0 {
			negateLeft--
		}
		intensity = 1
	}

	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return clamp(sum / float64(len(scores)))
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
