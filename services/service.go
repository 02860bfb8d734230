package services

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Kicker wakes the notification dispatcher after a commit.
type Kicker interface {
	Kick()
}

type nopKicker struct{}

func (nopKicker) Kick() {}

func orNop(k Kicker) Kicker {
	if k == nil {
		return nopKicker{}
	}
	return k
}

var validate = validator.New()

// Validate runs the struct tags of an input DTO and wraps failures as
// validation errors.
func Validate(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return &AppError{Kind: ErrValidation, Message: FormatValidation(err), Cause: err}
	}
	return nil
}

// FormatValidation flattens validator errors into "field: rule" messages.
func FormatValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fe.Field() + " failed on " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
	}
	return msg
}

func clockOrNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
