package response

// Business codes carried in the response envelope
const (
	CodeSuccess = 0
	CodeError   = 1

	// operator / auth 100xx
	ErrOperatorExists   = 10001
	ErrOperatorNotFound = 10002
	ErrAuthFailed       = 10003
	ErrTokenInvalid     = 10004
	ErrNoPermission     = 10005

	// catalog 200xx
	ErrProductNotFound = 20001

	// customer 300xx
	ErrCustomerNotFound = 30001

	// order / checkout 400xx
	ErrOrderNotFound     = 40001
	ErrCheckoutInvalid   = 40002
	ErrInvalidSignature  = 40003
	ErrGateway           = 40004
	ErrInvalidTransition = 40005

	// system 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
