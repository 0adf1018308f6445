package form

import (
	"errors"
	"sort"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateStruct runs every rule and joins the field violations into one
// error sorted by field name.
func ValidateStruct(structPtr interface{}, rules ...*validation.FieldRules) error {
	var msgs []string
	for _, rule := range rules {
		err := validation.ValidateStruct(structPtr, rule)
		if err == nil {
			continue
		}
		var ve validation.Errors
		if !errors.As(err, &ve) {
			return err
		}
		for field, fe := range ve {
			msgs = append(msgs, field+": "+formatErrMsg(fe.Error()))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, " "))
}

func formatErrMsg(s string) string {
	return ucfirst(strings.Trim(s, " .")) + "."
}

func ucfirst(str string) string {
	for i, v := range str {
		return string(unicode.ToUpper(v)) + str[i+1:]
	}
	return ""
}
