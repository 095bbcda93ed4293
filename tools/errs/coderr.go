package errs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	pkgerr "github.com/pkg/errors"
)

type CodeErrorI interface {
	ECode() int
	EMsg() string
	WithDetail(detail string) CodeError
	error
}

func NewCodeError(code int, msg string) CodeError {
	return CodeError{
		Code: code,
		Msg:  msg,
	}
}

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func (e CodeError) ECode() int   { return e.Code }
func (e CodeError) EMsg() string { return e.Msg }

func (e CodeError) WithDetail(detail string) CodeError {
	var d string
	if e.Detail == "" {
		d = detail
	} else {
		d = e.Detail + ", " + detail
	}
	return CodeError{
		Code:   e.Code,
		Msg:    e.Msg,
		Detail: d,
	}
}

// WrapMsg attaches detail and a stack to a copy of the coded error.
func (e CodeError) WrapMsg(msg string, kv ...any) error {
	out := e
	if msg != "" || len(kv) > 0 {
		detail := toString(msg, kv)
		if out.Detail == "" {
			out.Detail = detail
		} else {
			out.Detail += ", " + detail
		}
	}
	return pkgerr.WithStack(out)
}

func (e CodeError) Is(err error) bool {
	var codeErr CodeError
	if !errors.As(err, &codeErr) {
		return false
	}
	return e.Code == codeErr.Code
}

const initialCapacity = 3

func (e CodeError) Error() string {
	v := make([]string, 0, initialCapacity)
	v = append(v, strconv.Itoa(e.Code), e.Msg)

	if e.Detail != "" {
		v = append(v, e.Detail)
	}

	return strings.Join(v, " ")
}

func New(msg string, kv ...any) error {
	return errors.New(toString(msg, kv))
}

func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return pkgerr.WithStack(err)
}

func WrapMsg(err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}
	return pkgerr.Wrap(err, toString(msg, kv))
}

func toString(msg string, kv []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		sb.WriteString(" ")
		sb.WriteString(fmt.Sprint(kv[i]))
		sb.WriteString("=")
		if i+1 < len(kv) {
			sb.WriteString(fmt.Sprint(kv[i+1]))
		}
	}
	return sb.String()
}
