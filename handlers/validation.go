package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"feed-api/types"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useParamNames makes validator report the query/JSON parameter name
// instead of the Go field name.
func useParamNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// validationError maps binding failures to a 400 with per-parameter reasons.
func validationError(err error) *types.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		params := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			params[fe.Field()] = describeFieldError(fe)
		}
		return types.Validation("Invalid parameter(s): "+joinKeys(params), params)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return types.Validation("Invalid parameter(s): "+field,
			map[string]string{field: fmt.Sprintf("%s is not of type %s.", field, typeErr.Type.String())})
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return types.Validation("Invalid parameter(s)", map[string]string{"query": numErr.Error()})
	}
	return types.Validation(err.Error(), nil)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s is not one of %s.", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be greater than or equal to %s.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than or equal to %s.", fe.Field(), fe.Param())
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

// checkIntegers rejects query values for names that are present but not
// integers, so the response can name the parameter.
func checkIntegers(c *gin.Context, names ...string) *types.AppError {
	params := map[string]string{}
	for _, name := range names {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSpace(raw)); err != nil {
			params[name] = fmt.Sprintf("%s is not of type integer.", name)
		}
	}
	if len(params) == 0 {
		return nil
	}
	return types.Validation("Invalid parameter(s): "+joinKeys(params), params)
}

func joinKeys(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
