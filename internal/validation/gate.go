package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}[0-9]$`)

// Gate checks every field of a draft in one pass.
type Gate struct {
	v *validator.Validate
}

func NewGate() *Gate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return &Gate{v: v}
}

type Result struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"field_errors"`
}

// Validate never stops at the first failing field: the returned map holds a
// message for each invalid field.
func (g *Gate) Validate(draft any) Result {
	res := Result{Valid: true, FieldErrors: map[string]string{}}

	err := g.v.Struct(draft)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Valid = false
		res.FieldErrors["_"] = err.Error()
		return res
	}
	for _, fe := range verrs {
		key := fieldPath(fe.Namespace())
		if _, seen := res.FieldErrors[key]; seen {
			continue
		}
		res.FieldErrors[key] = message(fe)
	}
	res.Valid = len(res.FieldErrors) == 0
	return res
}

// Only narrows r to the given top-level fields and anything nested under them.
func (r Result) Only(fields ...string) Result {
	out := Result{Valid: true, FieldErrors: map[string]string{}}
	for key, msg := range r.FieldErrors {
		for _, f := range fields {
			if key == f || strings.HasPrefix(key, f+"[") || strings.HasPrefix(key, f+".") {
				out.FieldErrors[key] = msg
				break
			}
		}
	}
	out.Valid = len(out.FieldErrors) == 0
	return out
}

// Fields lists the invalid field paths in a stable order.
func (r Result) Fields() []string {
	out := make([]string, 0, len(r.FieldErrors))
	for k := range r.FieldErrors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Errors{Fields: r.FieldErrors}
}

// Errors carries per-field messages across error returns.
type Errors struct {
	Fields map[string]string
}

func (e *Errors) Error() string {
	keys := Result{FieldErrors: e.Fields}.Fields()
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s; ", k, e.Fields[k])
	}
	s := b.String()
	if len(s) > 2 {
		s = s[:len(s)-2]
	}
	return "validation failed: " + s
}

// fieldPath strips the root struct name: "PackageDraft.sender_name" -> "sender_name".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eqfield":
		return "must match " + snake(fe.Param())
	case "nefield":
		return "must differ from " + snake(fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return "failed " + fe.Tag()
	}
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
