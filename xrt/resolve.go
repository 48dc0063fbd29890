package xrt

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Open is the name of an empty filter wheel slot.
const Open = "Open"

var (
	filter1Names = []string{"Al_poly", "C_poly", "Be_thin", "Be_med", "Al_med"}
	filter2Names = []string{"Al_mesh", "Ti_poly", "Al_thick", "Be_thick"}
)

// Filter1Names returns the filters mounted on filter wheel 1, excluding Open.
func Filter1Names() []string { return slices.Clone(filter1Names) }

// Filter2Names returns the filters mounted on filter wheel 2, excluding Open.
func Filter2Names() []string { return slices.Clone(filter2Names) }

// ResolveFilterName converts a user supplied filter name to the canonical
// "<filter1>/<filter2>" form.
//
// Two wheel names are separated by a dash or, if there is no dash, by a
// slash. The string is split at the first separator only. A single name is
// placed on the wheel that carries it, with the other wheel Open.
//
// If that fails, dashes and then slashes are read as joining the words of
// one name, so "Be-thin" and "Al/poly" resolve like "Be_thin" and "Al_poly".
// The error returned is the one from the first parse.
func ResolveFilterName(name string) (string, error) {
	canonical, err := resolveParts(name)
	if err == nil {
		return canonical, nil
	}
	for _, joined := range []string{
		strings.ReplaceAll(name, "-", "_"),
		wordJoiner.Replace(name),
	} {
		if joined == name {
			continue
		}
		if canonical, jerr := resolveParts(joined); jerr == nil {
			return canonical, nil
		}
	}
	return "", err
}

var wordJoiner = strings.NewReplacer("-", "_", "/", "_")

func resolveParts(name string) (string, error) {
	fw1, fw2, ok := strings.Cut(name, "-")
	if !ok {
		fw1, fw2, ok = strings.Cut(name, "/")
	}

	if !ok {
		single := normalizeFilter(name)
		switch {
		case slices.Contains(filter1Names, single):
			return single + "/" + Open, nil
		case slices.Contains(filter2Names, single):
			return Open + "/" + single, nil
		}
		return "", &FilterNameError{Input: name}
	}

	fw1 = normalizeFilter(fw1)
	if fw1 != Open && !slices.Contains(filter1Names, fw1) {
		return "", &FilterNameError{Input: name, Wheel: 1}
	}
	fw2 = normalizeFilter(fw2)
	if fw2 != Open && !slices.Contains(filter2Names, fw2) {
		return "", &FilterNameError{Input: name, Wheel: 2}
	}
	return fw1 + "/" + fw2, nil
}

// ResolveFilterValue resolves a dynamically typed name, as found in decoded
// configuration or JSON. Anything but a string is ErrTypeMismatch.
func ResolveFilterValue(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrTypeMismatch, v)
	}
	return ResolveFilterName(s)
}

// normalizeFilter upper-cases the first character and replaces spaces with
// underscores. The rest of the string keeps its case.
func normalizeFilter(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	s = string(unicode.ToUpper(r)) + s[size:]
	return strings.ReplaceAll(s, " ", "_")
}
