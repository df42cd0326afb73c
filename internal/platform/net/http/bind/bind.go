// Package bind decodes and validates request input for handlers
package bind

import (
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	perr "censusbq/internal/platform/errors"
	"censusbq/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds a singleton validator and translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// Get returns the validator singleton, initializing on first use. Field names in messages
// come from the query tag, then the json tag
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"query", "json"} {
				if name := tagName(fld, key); name != "" {
					return name
				}
			}
			return fld.Name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		registerShort(v, trans, "min", "{0} must be at least {1}")
		registerShort(v, trans, "max", "{0} must be at most {1}")
		registerShort(v, trans, "oneof", "{0} must be one of [{1}]")

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Struct validates v and maps the first failure to a Validation error carrying the field
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Internalf("validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field(), fe.Translate(Get().Translator)
	}
	return "", err.Error()
}

// Query decodes r's query string into T using `query` struct tags, then validates it.
// Supported kinds are string, bool and the int family. Absent keys keep the zero value;
// when *T has a Defaults method it runs before validation
func Query[T any](r *http.Request) (T, error) {
	var dst T
	if err := decodeValues(r.URL.Query(), &dst); err != nil {
		var zero T
		return zero, err
	}
	if d, ok := any(&dst).(interface{ Defaults() }); ok {
		d.Defaults()
	}
	if err := Struct(dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}

func decodeValues(vals url.Values, dst any) error {
	rv := reflect.ValueOf(dst).Elem()
	if rv.Kind() != reflect.Struct {
		return perr.Internalf("bind: query target must be a struct, got %s", rv.Kind())
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := tagName(f, "query")
		if name == "" || !f.IsExported() {
			continue
		}
		raw := strings.TrimSpace(vals.Get(name))
		if raw == "" {
			continue
		}
		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return perr.WithField(perr.InvalidArgf("%s must be a boolean", name), name)
			}
			fv.SetBool(b)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
			if err != nil {
				return perr.WithField(perr.InvalidArgf("%s must be an integer", name), name)
			}
			fv.SetInt(n)
		default:
			return perr.Internalf("bind: unsupported query field kind %s for %s", fv.Kind(), name)
		}
	}
	return nil
}

func tagName(f reflect.StructField, key string) string {
	tag := f.Tag.Get(key)
	if tag == "-" {
		return ""
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	return tag
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error { return ut.Add(tag, text, true) },
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
