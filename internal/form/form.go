// Package form asks for the five bottle dimensions in an interactive
// terminal form.
package form

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/soypat/bottle"
)

var (
	errNotNumber = errors.New("not a number")
	errChars     = errors.New("use digits and a single '.' or ',' separator")
)

// ParseDimension parses a decimal number written with either '.' or ','
// as separator.
func ParseDimension(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("value required")
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || strings.Count(s, ",")+strings.Count(s, ".") > 1 {
		return 0, errNotNumber
	}
	return v, nil
}

// AcceptsPartial reports whether s may appear while a number is being typed:
// empty, a number, or a number followed by one trailing separator.
func AcceptsPartial(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	if _, err := ParseDimension(s); err == nil {
		return true
	}
	last := s[len(s)-1]
	if last != '.' && last != ',' {
		return false
	}
	head := s[:len(s)-1]
	if strings.ContainsAny(head, ".,") {
		return false
	}
	_, err := ParseDimension(head)
	return head == "" || err == nil
}

// validateDimension rejects text the original input filter would not let
// through before checking it parses.
func validateDimension(s string) error {
	if !AcceptsPartial(s) {
		return errChars
	}
	_, err := ParseDimension(s)
	return err
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type field struct {
	title string
	dst   *float64
	text  string
}

// Ask runs the form starting from d and returns the entered dimensions and
// the opener choice. Values are range checked by the caller.
func Ask(d bottle.Dimensions, opener bool) (bottle.Dimensions, bool, error) {
	fields := []*field{
		{title: "Total length, mm", dst: &d.TotalLength},
		{title: "Base length, mm", dst: &d.BaseLength},
		{title: "Bottleneck length, mm", dst: &d.BottleneckLength},
		{title: "Base diameter, mm", dst: &d.BaseDiameter},
		{title: "Bottleneck diameter, mm", dst: &d.BottleneckDiameter},
	}
	var inputs []huh.Field
	for _, f := range fields {
		f.text = format(*f.dst)
		inputs = append(inputs, huh.NewInput().
			Title(f.title).
			Value(&f.text).
			Validate(validateDimension))
	}
	inputs = append(inputs, huh.NewConfirm().
		Title("Cut bottle opener notches?").
		Value(&opener))

	if err := huh.NewForm(huh.NewGroup(inputs...)).Run(); err != nil {
		return d, opener, err
	}
	for _, f := range fields {
		v, err := ParseDimension(f.text)
		if err != nil {
			return d, opener, err
		}
		*f.dst = v
	}
	return d, opener, nil
}
