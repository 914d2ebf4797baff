package services

// Service errors
var (
	ErrPollClosed       = &ServiceError{Code: "POLL_CLOSED", Message: "poll is closed"}
	ErrAlreadyVoted     = &ServiceError{Code: "ALREADY_VOTED", Message: "you have already voted in this poll"}
	ErrInvalidOptions   = &ServiceError{Code: "INVALID_OPTIONS", Message: "invalid option selection"}
	ErrUnauthorized     = &ServiceError{Code: "UNAUTHORIZED", Message: "admin secret does not match"}
	ErrCodesNotEnabled  = &ServiceError{Code: "CODES_NOT_ENABLED", Message: "poll does not use voting codes"}
	ErrInvalidCodeCount = &ServiceError{Code: "INVALID_CODE_COUNT", Message: "number of codes must be at least 1"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
