package errs

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CodeError is the single structured error shape used on every rejection
// path, including the wire-level `error` event sent back to a client.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

// WithDetail returns a copy carrying extra context; the original stays clean
// so it can keep serving as an errors.Is target.
func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

// Wrap attaches a stack trace.
func (e *CodeError) Wrap() error {
	return errors.WithStack(e)
}

func (e *CodeError) WrapMsg(msg string) error {
	return errors.WithStack(e.WithDetail(msg))
}

func (e *CodeError) Is(err error) bool {
	var ce *CodeError
	if !stderrors.As(err, &ce) {
		return false
	}
	return ce.Code == e.Code
}

// AsCodeError extracts a CodeError from an error chain. Anything that is not
// a CodeError collapses to the given fallback.
func AsCodeError(err error, fallback *CodeError) *CodeError {
	var ce *CodeError
	if stderrors.As(err, &ce) {
		return ce
	}
	return fallback.WithDetail(err.Error())
}
