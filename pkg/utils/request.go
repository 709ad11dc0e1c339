package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mindfulai/backend/internal/core/errx"
)

// MaxBodyBytes 限制请求体大小。
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息使用 JSON 字段名。
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// DecodeJSON 读取并解析 JSON 请求体，失败时返回 400 的 AppError。
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errx.Validation("request body too large", err)
		case errors.Is(err, io.EOF):
			return errx.Validation("request body is required", err)
		default:
			return errx.Validation("invalid JSON body", err)
		}
	}
	return nil
}

// Validate 校验带 validate 标签的请求结构体。
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return errx.Validation(validationMessage(err), err)
	}
	return nil
}

// DecodeAndValidate 组合 DecodeJSON 与 Validate。
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := DecodeJSON(w, r, dst); err != nil {
		return err
	}
	return Validate(dst)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}

	fe := verrs[0]
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	nested := strings.ContainsAny(path, ".[")

	switch fe.Tag() {
	case "required":
		if !nested {
			return fmt.Sprintf("No %s provided", path)
		}
		return fmt.Sprintf("%s is required", path)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", path)
	}
}
