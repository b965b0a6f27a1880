// Package apiresp keeps every HTTP response in one envelope:
// {"code": 0, "msg": "ok", "data": ...} on success, the structured error
// code and message otherwise.
package apiresp

import (
	"net/http"

	"NProject/tools/errs"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "ok", "data": data})
}

func Fail(c *gin.Context, err error) {
	ce := errs.AsCodeError(err, errs.ErrPersistence)
	c.JSON(httpStatus(ce), gin.H{"code": ce.Code, "msg": ce.Msg})
}

func FailStatus(c *gin.Context, status int, err error) {
	ce := errs.AsCodeError(err, errs.ErrPersistence)
	c.JSON(status, gin.H{"code": ce.Code, "msg": ce.Msg})
}

func httpStatus(ce *errs.CodeError) int {
	switch ce.Code {
	case errs.ErrTokenInvalid.Code, errs.ErrTokenExpired.Code, errs.ErrBadLogin.Code:
		return http.StatusUnauthorized
	case errs.ErrUserExists.Code:
		return http.StatusConflict
	case errs.ErrRoomNotFound.Code:
		return http.StatusNotFound
	case errs.ErrNotAuthorized.Code:
		return http.StatusForbidden
	case errs.ErrBadPayload.Code:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
