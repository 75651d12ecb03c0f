package pools

import "errors"

var (
	ErrPoolNotFound           = errors.New("revenue pool not found")
	ErrAlreadyDistributed     = errors.New("revenue pool already distributed")
	ErrDistributionInProgress = errors.New("revenue pool distribution already in progress")
	ErrDistributionIncomplete = errors.New("revenue pool distribution incomplete, run again to resume")
	ErrInvalidMonth           = errors.New("invalid month, expected YYYY-MM")
)
