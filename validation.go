package logpile

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validateOptions(opts *Options) error {
	if opts == nil {
		return raiseNullArgument("target options")
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(opts); err != nil {
		return recordFailure(&Error{
			Kind:   ErrorKindInvalidArgument,
			key:    KeyInvalidOptions,
			detail: err.Error(),
			cause:  err,
		})
	}

	return nil
}
