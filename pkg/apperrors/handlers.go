package apperrors

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error     *AppError `json:"error"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// debugErrors переключается из app по окружению
var debugErrors = true

// SetDebug включает/выключает подробные сообщения для неклассифицированных ошибок
func SetDebug(debug bool) {
	debugErrors = debug
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
		if h.Debug {
			appErr.Details = err.Error()
		}
	}

	if appErr.HTTPCode >= 500 {
		slog.Error("Server error",
			slog.String("path", c.Request.URL.Path),
			slog.String("code", string(appErr.Code)),
			slog.Any("cause", appErr.Unwrap()),
		)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{
		Error:     appErr,
		Status:    appErr.HTTPCode,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: debugErrors}
	handler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HandleValidationError - ошибки биндинга Gin в наш формат
func HandleValidationError(c *gin.Context, err error) {
	HandleError(c, ValidationError(gin.H{"details": err.Error()}))
}
