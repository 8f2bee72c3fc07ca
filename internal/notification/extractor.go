// Package notification extracts structured order signals from raw
// notification text delivered by third-party delivery apps.
package notification

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/orderpilot/orderpilot/internal/model"
)

const milesToKm = 1.60934

// compiledSet holds a platform's pre-compiled patterns in priority order.
type compiledSet struct {
	amount   []*regexp.Regexp
	distance []*regexp.Regexp
	minutes  []*regexp.Regexp
}

// Extractor parses notification title/body text into OrderSignals using
// per-platform pattern tables. Extraction is deterministic: identical
// input always yields the identical result.
type Extractor struct {
	sets map[model.Platform]compiledSet
}

// NewExtractor creates an extractor over the given pattern tables.
func NewExtractor(patterns map[model.Platform]PatternSet) (*Extractor, error) {
	e := &Extractor{
		sets: make(map[model.Platform]compiledSet, len(patterns)),
	}

	for platform, set := range patterns {
		compiled, err := compileSet(set)
		if err != nil {
			return nil, fmt.Errorf("failed to compile patterns for %s: %w", platform, err)
		}
		e.sets[platform] = compiled
	}

	return e, nil
}

func compileSet(set PatternSet) (compiledSet, error) {
	var out compiledSet
	var err error

	if out.amount, err = compileAll(set.Amount); err != nil {
		return out, err
	}
	if out.distance, err = compileAll(set.Distance); err != nil {
		return out, err
	}
	if out.minutes, err = compileAll(set.Time); err != nil {
		return out, err
	}
	return out, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Extract parses a notification for the given platform. The second return
// is false when the text is not an order: unknown platform, no amount
// pattern match, or an unparseable amount all short-circuit the same way.
func (e *Extractor) Extract(platform model.Platform, title, body string, observedAt time.Time) (model.OrderSignal, bool) {
	set, ok := e.sets[platform]
	if !ok {
		return model.OrderSignal{}, false
	}

	text := title + " " + body

	// Amount is mandatory. No match, or a match that fails numeric
	// parse, means this notification is not an order.
	amount, ok := e.extractAmount(set, text)
	if !ok {
		return model.OrderSignal{}, false
	}

	signal := model.NewOrderSignal(platform, title, body, observedAt)
	signal.Amount = amount

	// Distance and time are best-effort; absence leaves the field unset.
	if km, ok := e.extractDistance(set, text); ok {
		signal.DistanceKm = &km
	}
	if minutes, ok := e.extractTime(set, text); ok {
		signal.TimeMinutes = &minutes
	}

	return signal, true
}

func (e *Extractor) extractAmount(set compiledSet, text string) (float64, bool) {
	for _, re := range set.amount {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		amount, err := strconv.ParseFloat(normalizeAmount(m[1]), 64)
		if err != nil || amount < 0 {
			continue
		}
		return amount, true
	}
	return 0, false
}

func (e *Extractor) extractDistance(set compiledSet, text string) (float64, bool) {
	for _, re := range set.distance {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil || value < 0 {
			continue
		}
		if len(m) >= 3 && strings.HasPrefix(strings.ToLower(m[2]), "mi") {
			value *= milesToKm
		}
		return value, true
	}
	return 0, false
}

func (e *Extractor) extractTime(set compiledSet, text string) (int, bool) {
	for _, re := range set.minutes {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		minutes, err := strconv.Atoi(m[1])
		if err != nil || minutes < 0 {
			continue
		}
		return minutes, true
	}
	return 0, false
}

// normalizeAmount strips thousand separators so strconv can parse values
// like "1,250.50". Currency symbols never reach here: the capture groups
// only match digits, commas, and a decimal point.
func normalizeAmount(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
}
