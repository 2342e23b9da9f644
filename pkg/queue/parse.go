package queue

import (
	"errors"
	"io"
	"strconv"
	"strings"

	perrors "github.com/matzehuels/printqueue/pkg/errors"
)

// Sentinel causes wrapped by the structured errors Parse returns.
var (
	ErrNoSeparator   = errors.New("no empty line found")
	ErrMalformedRule = errors.New("no | found on a rule line")
	ErrInvalidPage   = errors.New("invalid page number")
	ErrNoRules       = errors.New("no rules")
	ErrNoUpdates     = errors.New("no updates")
)

// Read consumes r fully and parses it with Parse.
func Read(r io.Reader) (*Manual, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read input")
	}
	return Parse(string(data))
}

// Parse reads the rules block and the updates block, separated by the
// first blank line. Blank lines inside either block are skipped.
func Parse(input string) (*Manual, error) {
	input = strings.ReplaceAll(input, "\r\n", "\n")

	rulesBlock, updatesBlock, found := strings.Cut(input, "\n\n")
	if !found {
		return nil, perrors.Wrap(perrors.ErrCodeMissingSeparator, ErrNoSeparator,
			"rules and updates must be separated by a blank line")
	}

	rules, err := parseRules(rulesBlock)
	if err != nil {
		return nil, err
	}
	// Rule lines, then the blank separator, then the first update.
	offset := strings.Count(rulesBlock, "\n") + 3
	updates, err := parseUpdates(updatesBlock, offset)
	if err != nil {
		return nil, err
	}

	if len(rules) == 0 {
		return nil, perrors.Wrap(perrors.ErrCodeEmptyInput, ErrNoRules, "input contains no rules")
	}
	if len(updates) == 0 {
		return nil, perrors.Wrap(perrors.ErrCodeEmptyInput, ErrNoUpdates, "input contains no updates")
	}
	return &Manual{Rules: rules, Updates: updates}, nil
}

func parseRules(block string) ([]Rule, error) {
	var rules []Rule
	for i, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		l, r, ok := strings.Cut(line, "|")
		if !ok {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidRule, ErrMalformedRule, "line %d: %q", i+1, line)
		}
		before, err := parsePage(l, i+1)
		if err != nil {
			return nil, err
		}
		after, err := parsePage(r, i+1)
		if err != nil {
			return nil, err
		}
		rules = append(rules, Rule{Before: before, After: after})
	}
	return rules, nil
}

func parseUpdates(block string, firstLine int) ([]Update, error) {
	var updates []Update
	for i, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		u := make(Update, 0, len(fields))
		for _, f := range fields {
			p, err := parsePage(f, firstLine+i)
			if err != nil {
				return nil, err
			}
			u = append(u, p)
		}
		updates = append(updates, u)
	}
	return updates, nil
}

func parsePage(s string, line int) (Page, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, perrors.Wrap(perrors.ErrCodeInvalidPage, errors.Join(ErrInvalidPage, err), "line %d: %q", line, s)
	}
	return Page(n), nil
}
