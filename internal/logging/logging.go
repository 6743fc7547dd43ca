package logging

import (
	"go.uber.org/zap"
)

// New returns a production JSON logger when production is set and a
// development console logger otherwise.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
