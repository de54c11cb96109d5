package stock

import (
	"errors"
	"fmt"
)

// InvalidSymbolError marks a symbol whose quote could not be fetched or came
// back with a zero price. The mandatory quote is the existence check; every
// other data source is best-effort.
type InvalidSymbolError struct {
	Symbol string
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol %s: no usable quote", e.Symbol)
}

// IsInvalidSymbol reports whether err is an InvalidSymbolError.
func IsInvalidSymbol(err error) bool {
	var target *InvalidSymbolError
	return errors.As(err, &target)
}
