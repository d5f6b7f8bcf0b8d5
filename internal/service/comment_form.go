package service

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidComment 表示评论表单未通过校验，具体字段见 ValidationError。
var ErrInvalidComment = errors.New("invalid comment")

var commentValidator = newCommentValidator()

// CommentInput 是访客提交评论的表单字段。
type CommentInput struct {
	Name  string `form:"name" json:"name" validate:"required,max=255"`
	Email string `form:"email" json:"email" validate:"required,max=254,email"`
	Body  string `form:"body" json:"body" validate:"required"`
}

// ValidationError 列出所有未通过校验的字段及提示信息。
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid comment: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidComment
}

// Normalized 返回去除首尾空白后的副本。
func (in CommentInput) Normalized() CommentInput {
	return CommentInput{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Body:  strings.TrimSpace(in.Body),
	}
}

// Validate 校验姓名非空、邮箱格式正确、正文非空，返回 *ValidationError 或 nil。
func (in CommentInput) Validate() error {
	normalized := in.Normalized()
	err := commentValidator.Struct(normalized)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = commentFieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func commentFieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	default:
		return "Invalid value."
	}
}

func newCommentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}
