package serial

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("baudrate", func(fl validator.FieldLevel) bool {
		return BaudRate(fl.Field().Int()).IsValid()
	})
	return v
}

// ValidateConfig validates serial port configuration parameters
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("serial config has not been set")
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldError(cfg, fe))
	}
	return errors.Join(msgs...)
}

func fieldError(cfg *Config, fe validator.FieldError) error {
	switch fe.Field() {
	case "PortName":
		return fmt.Errorf("port name cannot be empty")
	case "BaudRate":
		return fmt.Errorf("invalid baud rate %d, must be one of: %v", cfg.BaudRate, ValidBaudRates)
	case "DataBits":
		return fmt.Errorf("data bits must be 5-8, got: %d", cfg.DataBits)
	case "Parity":
		return fmt.Errorf("invalid parity value: %q", cfg.Parity)
	case "StopBits":
		return fmt.Errorf("stop bits must be 1, 1.5, or 2, got: %q", cfg.StopBits)
	case "ReadTimeout":
		return fmt.Errorf("read timeout must be positive: %v", cfg.ReadTimeout)
	default:
		return fe
	}
}
