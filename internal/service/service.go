package service

import (
	"github.com/smartcity/accidents/internal/domain"
)

// AccidentSource is re-exported from domain for convenience
type AccidentSource = domain.AccidentSource
