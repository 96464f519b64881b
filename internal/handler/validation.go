package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/lithium-edu/exam-rooms-api/internal/service"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("capability", func(fl validator.FieldLevel) bool {
			return service.IsKnownCapability(fl.Field().String())
		})
	}
}
