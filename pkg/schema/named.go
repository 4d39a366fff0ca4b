package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownRule is returned by Lookup for an unrecognised rule name.
var ErrUnknownRule = errors.New("schema: unknown rule")

// ErrInvalidRuleArgs is returned by Lookup when a rule's arguments are
// missing or malformed.
var ErrInvalidRuleArgs = errors.New("schema: invalid rule arguments")

// dateRangeSep separates dateRange bounds, which may themselves contain
// ':' (e.g. "dateRange:2024-01-01T09:00..2024-01-01T17:30").
const dateRangeSep = ".."

// Lookup resolves a textual rule reference of the form "name[:arg[:arg]]"
// as used in form definition files, e.g. "email", "password:10",
// "range:1:10", "equals:password", "fileTypes:image/png,image/jpeg",
// "dateRange:2024-01-01..2024-12-31". Either dateRange bound may be empty.
func Lookup(ref string) ([]Rule, error) {
	ref = strings.TrimSpace(ref)
	name, rest, _ := strings.Cut(ref, ":")
	var args []string
	if rest != "" {
		args = strings.Split(rest, ":")
	}

	switch name {
	case "required":
		return one(Required()), nil
	case "optional":
		return one(OptionalString()), nil
	case "email":
		return one(Email()), nil
	case "url":
		return one(URL()), nil
	case "phone":
		return one(Phone()), nil
	case "password":
		n := 8
		if len(args) > 0 {
			v, err := intArg(ref, args[0])
			if err != nil {
				return nil, err
			}
			n = v
		}
		return one(Password(n)), nil
	case "minLength", "maxLength", "minItems":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %q expects one argument", ErrInvalidRuleArgs, ref)
		}
		n, err := intArg(ref, args[0])
		if err != nil {
			return nil, err
		}
		switch name {
		case "minLength":
			return one(MinLength(n)), nil
		case "maxLength":
			return one(MaxLength(n)), nil
		default:
			return one(MinItems(n)), nil
		}
	case "pattern":
		if rest == "" {
			return nil, fmt.Errorf("%w: %q expects an expression", ErrInvalidRuleArgs, ref)
		}
		if _, err := regexp.Compile(rest); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRuleArgs, ref, err)
		}
		return one(Pattern(rest, "")), nil
	case "positive":
		return one(Positive()), nil
	case "nonNegative":
		return one(NonNegative()), nil
	case "min", "max":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %q expects one argument", ErrInvalidRuleArgs, ref)
		}
		n, err := floatArg(ref, args[0])
		if err != nil {
			return nil, err
		}
		if name == "min" {
			return one(Min(n)), nil
		}
		return one(Max(n)), nil
	case "range":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: %q expects min and max", ErrInvalidRuleArgs, ref)
		}
		lo, err := floatArg(ref, args[0])
		if err != nil {
			return nil, err
		}
		hi, err := floatArg(ref, args[1])
		if err != nil {
			return nil, err
		}
		return Range(lo, hi), nil
	case "pastDate":
		return one(PastDate()), nil
	case "futureDate":
		return one(FutureDate()), nil
	case "dateRange":
		lo, hi, ok := strings.Cut(rest, dateRangeSep)
		if !ok || (lo == "" && hi == "") {
			return nil, fmt.Errorf("%w: %q expects min%smax dates", ErrInvalidRuleArgs, ref, dateRangeSep)
		}
		rules, err := CheckedDateRange(strings.TrimSpace(lo), strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", ref, err)
		}
		return rules, nil
	case "image":
		return one(ImageFile()), nil
	case "document":
		return one(DocumentFile()), nil
	case "maxFileSize":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %q expects a size in bytes", ErrInvalidRuleArgs, ref)
		}
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRuleArgs, ref, err)
		}
		return one(MaxFileSize(n)), nil
	case "fileTypes":
		if rest == "" {
			return nil, fmt.Errorf("%w: %q expects MIME types", ErrInvalidRuleArgs, ref)
		}
		return one(FileTypes(strings.Split(rest, ",")...)), nil
	case "unique":
		return one(UniqueValues()), nil
	case "equals":
		if len(args) != 1 || args[0] == "" {
			return nil, fmt.Errorf("%w: %q expects a field name", ErrInvalidRuleArgs, ref)
		}
		return one(EqualsField(args[0], "")), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}

// LookupAll resolves every reference in order and concatenates the rules.
func LookupAll(refs []string) ([]Rule, error) {
	var rules []Rule
	for _, ref := range refs {
		resolved, err := Lookup(ref)
		if err != nil {
			return nil, err
		}
		rules = append(rules, resolved...)
	}
	return rules, nil
}

func one(r Rule) []Rule {
	return []Rule{r}
}

func intArg(ref, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidRuleArgs, ref, err)
	}
	return n, nil
}

func floatArg(ref, raw string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidRuleArgs, ref, err)
	}
	return n, nil
}
