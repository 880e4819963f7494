package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError -> satu entri pada daftar error validasi
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Success: code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Success: false,
		Message: err.Error(),
	})
}

// RespondValidationError -> 400 dengan daftar error per field
func RespondValidationError(c *gin.Context, message string, errs []FieldError) {
	c.JSON(http.StatusBadRequest, JSONResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
